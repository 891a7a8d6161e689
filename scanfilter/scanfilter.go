// Package scanfilter implements the include/exclude package and class-name
// restrictions applied while scanning a classpath, and while scanning an
// individual classfile's referenced-type descriptors.
package scanfilter

import "strings"

// Filter decides whether a class name should be retained. It implements
// classfile.TypeFilter so the same restrictions a caller configures for
// "which classes get scanned" also bound "which referenced type names get
// retained".
type Filter struct {
	includePackages []string
	excludePackages []string
	includeClasses  map[string]bool
	excludeClasses  map[string]bool
}

// Option configures a Filter.
type Option func(*Filter)

// New builds a Filter from options. With no options, every class name is
// allowed (the default: no restriction).
func New(opts ...Option) *Filter {
	f := &Filter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithIncludePackages restricts retained names to those under one of the
// given dotted package prefixes (e.g. "com.example"). Passing none means
// "every package is included" unless ExcludePackages narrows it.
func WithIncludePackages(prefixes ...string) Option {
	return func(f *Filter) { f.includePackages = append(f.includePackages, prefixes...) }
}

// WithExcludePackages drops names under any of the given dotted package
// prefixes. Exclude always wins over include when both match.
func WithExcludePackages(prefixes ...string) Option {
	return func(f *Filter) { f.excludePackages = append(f.excludePackages, prefixes...) }
}

// WithIncludeClasses restricts retention to an exact set of fully-qualified
// class names, in addition to whatever package rules apply.
func WithIncludeClasses(names ...string) Option {
	return func(f *Filter) {
		if f.includeClasses == nil {
			f.includeClasses = make(map[string]bool, len(names))
		}
		for _, n := range names {
			f.includeClasses[n] = true
		}
	}
}

// WithExcludeClasses drops an exact set of fully-qualified class names,
// regardless of package rules.
func WithExcludeClasses(names ...string) Option {
	return func(f *Filter) {
		if f.excludeClasses == nil {
			f.excludeClasses = make(map[string]bool, len(names))
		}
		for _, n := range names {
			f.excludeClasses[n] = true
		}
	}
}

// JREPreset excludes the standard JDK module namespaces ("java.", "javax.",
// "jdk.", "sun.", "com.sun.") to keep platform classes out of the graph by
// default.
func JREPreset() Option {
	return WithExcludePackages("java.", "javax.", "jdk.", "sun.", "com.sun.")
}

// Allow reports whether name should be retained. Satisfies
// classfile.TypeFilter.
func (f *Filter) Allow(name string) bool {
	if f == nil {
		return true
	}
	if f.excludeClasses[name] {
		return false
	}
	if hasAnyPrefix(name, f.excludePackages) {
		return false
	}
	if f.includeClasses[name] {
		return true
	}
	if len(f.includeClasses) == 0 && len(f.includePackages) == 0 {
		return true // no include restriction configured at all
	}
	return hasAnyPrefix(name, f.includePackages)
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
