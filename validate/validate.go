// Package validate is the gate between loading and generation: it checks
// that the baseline locale exists, that its attribute map declares every
// key any locale uses, and reports per-locale coverage for status output.
// Generation never runs on a set that fails these checks.
package validate

import (
	"fmt"

	"github.com/minios-linux/locgen/bundle"
)

// Check verifies the loaded set against the baseline contract. The first
// violation is returned; the caller aborts with no output.
func Check(set *bundle.Set) error {
	base, ok := set.Resources[set.Baseline]
	if !ok {
		return fmt.Errorf("baseline locale %q is not present in the data", set.Baseline)
	}

	attrs := set.BaselineAttrs()
	if len(attrs) == 0 {
		return fmt.Errorf("baseline locale %q declares no attribute metadata", set.Baseline)
	}

	// The baseline itself must declare metadata for each of its keys.
	for _, k := range set.Keys(set.Baseline) {
		if _, ok := attrs[k]; !ok {
			return &bundle.MissingBaselineKeyError{
				Key:      k,
				Locale:   set.Baseline,
				Baseline: set.Baseline,
			}
		}
	}

	// Every key used anywhere must exist in the baseline: both as a
	// value (the complete reference bundle) and as metadata.
	for _, locale := range set.Locales() {
		if locale == set.Baseline {
			continue
		}
		for _, k := range set.Keys(locale) {
			if _, ok := attrs[k]; !ok {
				return &bundle.MissingBaselineKeyError{
					Key:      k,
					Locale:   locale,
					Baseline: set.Baseline,
				}
			}
			if _, ok := base[k]; !ok {
				return &bundle.MissingBaselineKeyError{
					Key:      k,
					Locale:   locale,
					Baseline: set.Baseline,
				}
			}
		}
	}

	return nil
}

// LocaleStat is per-locale coverage relative to the baseline.
type LocaleStat struct {
	// Locale is the locale identifier.
	Locale string
	// Keys is the number of resource keys the locale carries.
	Keys int
	// Missing is the number of baseline keys the locale does not carry
	// itself (it inherits them through the fallback chain).
	Missing int
}

// Report summarizes a loaded set for status output.
type Report struct {
	Baseline     string
	BaselineKeys int
	Locales      []LocaleStat
}

// Stats computes coverage statistics. It assumes Check has passed.
func Stats(set *bundle.Set) Report {
	base := set.Resources[set.Baseline]
	r := Report{Baseline: set.Baseline, BaselineKeys: len(base)}

	for _, locale := range set.Locales() {
		st := LocaleStat{Locale: locale, Keys: len(set.Resources[locale])}
		for k := range base {
			if _, ok := set.Resources[locale][k]; !ok {
				st.Missing++
			}
		}
		r.Locales = append(r.Locales, st)
	}
	return r
}
