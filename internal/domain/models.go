package domain

// Core Enums and Types

// Classification represents the pathogenicity classification of a variant
type Classification string

const (
	PATHOGENIC        Classification = "Pathogenic"
	LIKELY_PATHOGENIC Classification = "Likely Pathogenic"
	VUS               Classification = "VUS"
	LIKELY_BENIGN     Classification = "Likely Benign"
	BENIGN            Classification = "Benign"
	UNCLASSIFIED      Classification = "unknown"
)

// IsKnown reports whether the classification is one of the fixed categories
// rather than the unknown default or a free-text passthrough.
func (c Classification) IsKnown() bool {
	switch c {
	case PATHOGENIC, LIKELY_PATHOGENIC, VUS, LIKELY_BENIGN, BENIGN:
		return true
	}
	return false
}

// Sex represents patient biological sex
type Sex string

const (
	MALE        Sex = "M"
	FEMALE      Sex = "F"
	SEX_UNKNOWN Sex = "unknown"
)

// Vocabulary Codes

// GeneCode is an HGNC mapping result from the vocabulary service
type GeneCode struct {
	Code        string   `json:"code"`
	System      string   `json:"system"`
	Name        string   `json:"name"`
	Chromosome  string   `json:"chromosome,omitempty"`
	CancerTypes []string `json:"cancer_types,omitempty"`
	Actionable  bool     `json:"actionable"`
}

// DrugCode is an RxNorm mapping result from the vocabulary service
type DrugCode struct {
	Code          string   `json:"code"`
	System        string   `json:"system"`
	Display       string   `json:"display"`
	Targets       []string `json:"target,omitempty"`
	Indication    string   `json:"indication,omitempty"`
	EvidenceLevel string   `json:"evidence_level,omitempty"`
}

// DiagnosisCode is an ICD-O mapping result from the vocabulary service
type DiagnosisCode struct {
	Code       string `json:"code"`
	System     string `json:"system"`
	Display    string `json:"display"`
	Topography string `json:"topography,omitempty"`
}

// Core Data Models

// PatientRecord holds patient demographics extracted from a report
type PatientRecord struct {
	ID        string `json:"id,omitempty"`
	Age       int    `json:"age,omitempty"`
	Sex       Sex    `json:"sex"`
	BirthDate string `json:"birth_date,omitempty"` // ISO-8601 date
}

// IsComplete reports whether id, age and sex were all extracted.
func (p *PatientRecord) IsComplete() bool {
	return p.ID != "" && p.Age > 0 && p.Sex != SEX_UNKNOWN && p.Sex != ""
}

// DiagnosisRecord holds the primary diagnosis extracted from a report
type DiagnosisRecord struct {
	PrimaryDiagnosis string         `json:"primary_diagnosis,omitempty"`
	Stage            string         `json:"stage,omitempty"`
	Histology        string         `json:"histology,omitempty"`
	VocabularyCode   *DiagnosisCode `json:"vocabulary_code,omitempty"`
}

// VariantRecord represents one genomic variant extracted from a report.
// A fusion is encoded as gene "GENE1::GENE2" with ProteinChange "fusion".
type VariantRecord struct {
	Gene               string         `json:"gene"`
	CDNAChange         string         `json:"cdna_change,omitempty"`
	ProteinChange      string         `json:"protein_change,omitempty"`
	Classification     Classification `json:"classification"`
	VAF                *float64       `json:"vaf,omitempty"`
	RawText            string         `json:"raw_text,omitempty"`
	GeneVocabularyCode *GeneCode      `json:"gene_vocabulary_code,omitempty"`
}

// IdentityKey returns the (gene, protein_change, cdna_change) identity of the
// variant. No two records in one report may share this key.
func (v *VariantRecord) IdentityKey() string {
	return v.Gene + "|" + v.ProteinChange + "|" + v.CDNAChange
}

// IsFusion reports whether the record encodes a gene fusion.
func (v *VariantRecord) IsFusion() bool {
	return v.ProteinChange == "fusion"
}

// IsActionable reports whether the variant is mapped and pathogenic.
func (v *VariantRecord) IsActionable() bool {
	return v.GeneVocabularyCode != nil &&
		(v.Classification == PATHOGENIC || v.Classification == LIKELY_PATHOGENIC)
}

// TherapeuticRecommendation links a drug mention to its target and evidence
type TherapeuticRecommendation struct {
	Drug               string    `json:"drug"` // normalized lowercase generic name
	GeneTarget         string    `json:"gene_target,omitempty"`
	EvidenceLevel      string    `json:"evidence_level,omitempty"`
	DrugVocabularyCode *DrugCode `json:"drug_vocabulary_code,omitempty"`
}

// QualityMetrics summarizes completeness and confidence of one extraction
type QualityMetrics struct {
	TotalFieldsExpected  int      `json:"total_fields_expected"`
	FilledFields         int      `json:"filled_fields"`
	CompletenessPct      float64  `json:"completeness_pct"`
	VariantsFound        int      `json:"variants_found"`
	VariantsWithVAF      int      `json:"variants_with_vaf"`
	VariantsClassified   int      `json:"variants_classified"`
	VariantsWithGeneCode int      `json:"variants_with_gene_code"`
	DrugsIdentified      int      `json:"drugs_identified"`
	DrugsMapped          int      `json:"drugs_mapped"`
	DiagnosisMapped      bool     `json:"diagnosis_mapped"`
	PatientComplete      bool     `json:"patient_complete"`
	Warnings             []string `json:"warnings"`
}

// AddWarning appends a warning unless an identical one is already present.
func (q *QualityMetrics) AddWarning(warning string) {
	for _, w := range q.Warnings {
		if w == warning {
			return
		}
	}
	q.Warnings = append(q.Warnings, warning)
}

// ExtractionReport aggregates all entities extracted from one report text.
// It is assembled exactly once per parse and not mutated afterwards.
type ExtractionReport struct {
	Patient         PatientRecord               `json:"patient"`
	Diagnosis       DiagnosisRecord             `json:"diagnosis"`
	Variants        []VariantRecord             `json:"variants"`
	Recommendations []TherapeuticRecommendation `json:"recommendations"`
	TMB             *float64                    `json:"tmb,omitempty"`
	NGSMethod       string                      `json:"ngs_method,omitempty"`
	ReportDate      string                      `json:"report_date,omitempty"`
	Quality         QualityMetrics              `json:"quality_metrics"`
}

// ActionableVariants returns the variants with a vocabulary mapping and a
// pathogenic or likely pathogenic classification.
func (r *ExtractionReport) ActionableVariants() []VariantRecord {
	var out []VariantRecord
	for _, v := range r.Variants {
		if v.IsActionable() {
			out = append(out, v)
		}
	}
	return out
}

// FusionVariants returns the gene fusion records.
func (r *ExtractionReport) FusionVariants() []VariantRecord {
	var out []VariantRecord
	for _, v := range r.Variants {
		if v.IsFusion() {
			out = append(out, v)
		}
	}
	return out
}

// HasHighTMB reports whether TMB meets or exceeds the given mut/Mb threshold.
func (r *ExtractionReport) HasHighTMB(threshold float64) bool {
	return r.TMB != nil && *r.TMB >= threshold
}
