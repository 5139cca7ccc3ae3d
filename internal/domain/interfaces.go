package domain

// VocabularyService resolves free-text clinical strings to controlled
// vocabulary codes. A nil result means "unmapped", never an error; the
// service is loaded once at process start and is read-only afterwards.
type VocabularyService interface {
	// LookupGene maps a gene symbol to its HGNC code. Fusion symbols
	// ("GENE1::GENE2") are resolved by their first partner.
	LookupGene(symbol string) *GeneCode

	// IsKnownGene reports gene-symbol membership without allocating a code.
	IsKnownGene(symbol string) bool

	// LookupDrug maps a drug name to its RxNorm code (fuzzy above 0.8).
	LookupDrug(name string) *DrugCode

	// LookupDiagnosis maps diagnosis text to an ICD-O code using exact,
	// substring and fuzzy matching (similarity threshold 0.6).
	LookupDiagnosis(text string) *DiagnosisCode

	// DrugNames returns all known drug names in deterministic order
	// (longest first, then lexicographic) for pattern construction.
	DrugNames() []string
}
