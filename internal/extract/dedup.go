package extract

import (
	"github.com/mtb-report-extractor/internal/domain"
)

// dedupAccumulator folds the unioned candidate stream into a duplicate-free
// record list. It collapses matches from different pattern families that
// refer to the same real-world entity: a candidate is a duplicate when it
// shares the gene plus a non-empty cdna or protein change with a record
// already kept. Policy is first-seen-wins whole-record replacement in
// family priority order; fields are not merged across duplicates.
//
// The accumulator is an explicit value threaded through the union→dedupe
// fold rather than a closure-captured set, keeping extraction referentially
// transparent and testable in isolation.
type dedupAccumulator struct {
	seen map[string]bool
	kept []domain.VariantRecord
}

func newDedupAccumulator() *dedupAccumulator {
	return &dedupAccumulator{seen: make(map[string]bool)}
}

// aliasKeys returns the identity aliases a record occupies. Registering
// both the cdna and protein alias for a full match makes a later partial
// match on either notation a duplicate, while still guaranteeing that no
// two kept records share the full (gene, protein, cdna) identity key.
func aliasKeys(v *domain.VariantRecord) []string {
	var keys []string
	if v.CDNAChange != "" {
		keys = append(keys, v.Gene+"|c|"+v.CDNAChange)
	}
	if v.ProteinChange != "" {
		keys = append(keys, v.Gene+"|p|"+v.ProteinChange)
	}
	if len(keys) == 0 {
		keys = append(keys, v.Gene+"|")
	}
	return keys
}

// add keeps the candidate unless any of its aliases was already claimed.
func (a *dedupAccumulator) add(v *domain.VariantRecord) bool {
	keys := aliasKeys(v)
	for _, k := range keys {
		if a.seen[k] {
			return false
		}
	}
	for _, k := range keys {
		a.seen[k] = true
	}
	a.kept = append(a.kept, *v)
	return true
}

func (a *dedupAccumulator) addAll(vs []domain.VariantRecord) {
	for i := range vs {
		a.add(&vs[i])
	}
}

// records returns the kept records in insertion order.
func (a *dedupAccumulator) records() []domain.VariantRecord {
	return a.kept
}
