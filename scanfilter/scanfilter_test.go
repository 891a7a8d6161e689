package scanfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_NoRestrictions(t *testing.T) {
	f := New()
	assert.True(t, f.Allow("java.lang.Object"))
	assert.True(t, f.Allow("com.example.Widget"))
}

func TestFilter_JREPreset(t *testing.T) {
	f := New(JREPreset())
	assert.False(t, f.Allow("java.lang.Object"))
	assert.False(t, f.Allow("sun.misc.Unsafe"))
	assert.True(t, f.Allow("com.example.Widget"))
}

func TestFilter_IncludePackagesRestricts(t *testing.T) {
	f := New(WithIncludePackages("com.example"))
	assert.True(t, f.Allow("com.example.Widget"))
	assert.False(t, f.Allow("com.other.Thing"))
}

func TestFilter_ExcludeWinsOverInclude(t *testing.T) {
	f := New(WithIncludePackages("com.example"), WithExcludeClasses("com.example.Secret"))
	assert.True(t, f.Allow("com.example.Widget"))
	assert.False(t, f.Allow("com.example.Secret"))
}

func TestFilter_PackageExclusionWinsOverExactClassInclude(t *testing.T) {
	f := New(WithExcludePackages("com.example"), WithIncludeClasses("com.example.Allowed"))
	assert.False(t, f.Allow("com.example.Other"))
	// Exclude-package still wins over include-class: a caller that wants one
	// class back out of an excluded package must not also exclude its package.
	assert.False(t, f.Allow("com.example.Allowed"))
}

func TestFilter_NilFilterAllowsEverything(t *testing.T) {
	var f *Filter
	assert.True(t, f.Allow("anything.At.All"))
}
