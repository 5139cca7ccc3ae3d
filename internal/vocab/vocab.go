// Package vocab implements the vocabulary service: controlled vocabularies
// (HGNC genes, RxNorm drugs, ICD-O diagnoses) loaded once at process start,
// with exact, substring and fuzzy lookup. A nil lookup result means
// "unmapped", never an error.
package vocab

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/mtb-report-extractor/internal/domain"
)

//go:embed data/*.json
var embeddedVocabularies embed.FS

// Fuzzy-match similarity thresholds, matching the source system's cutoffs.
const (
	diagnosisFuzzyCutoff = 0.6
	drugFuzzyCutoff      = 0.8

	fuzzyCacheSize = 1024
)

// Vocabulary file names, both embedded and on-disk overrides.
const (
	hgncFile   = "hgnc_genes.json"
	rxnormFile = "rxnorm_drugs.json"
	icdOFile   = "icd_o_diagnoses.json"
)

type geneFile struct {
	Metadata map[string]string           `json:"metadata"`
	Genes    map[string]*domain.GeneCode `json:"genes"`
}

type drugFile struct {
	Metadata map[string]string           `json:"metadata"`
	Drugs    map[string]*domain.DrugCode `json:"drugs"`
}

type diagnosisFile struct {
	Metadata  map[string]string                `json:"metadata"`
	Diagnoses map[string]*domain.DiagnosisCode `json:"diagnoses"`
}

// Service loads and serves the controlled vocabularies. It is read-only
// after construction; the LRU caches are safe for concurrent use.
type Service struct {
	genes     map[string]*domain.GeneCode
	drugs     map[string]*domain.DrugCode
	diagnoses map[string]*domain.DiagnosisCode

	// Sorted lookup keys, so fuzzy scans and pattern construction are
	// deterministic regardless of map iteration order.
	drugNames     []string
	diagnosisKeys []string

	diagnosisCache *lru.Cache
	drugCache      *lru.Cache

	logger *logrus.Logger
}

// NewService loads the embedded vocabularies. If dir is non-empty, JSON
// files found there override the embedded ones.
func NewService(logger *logrus.Logger, dir string) (*Service, error) {
	s := &Service{logger: logger}

	var genes geneFile
	if err := s.loadFile(dir, hgncFile, &genes); err != nil {
		return nil, fmt.Errorf("loading gene vocabulary: %w", err)
	}
	var drugs drugFile
	if err := s.loadFile(dir, rxnormFile, &drugs); err != nil {
		return nil, fmt.Errorf("loading drug vocabulary: %w", err)
	}
	var diagnoses diagnosisFile
	if err := s.loadFile(dir, icdOFile, &diagnoses); err != nil {
		return nil, fmt.Errorf("loading diagnosis vocabulary: %w", err)
	}

	s.genes = genes.Genes
	s.drugs = drugs.Drugs
	s.diagnoses = diagnoses.Diagnoses

	s.drugNames = sortedKeys(s.drugs)
	s.diagnosisKeys = sortedKeys(s.diagnoses)

	diagnosisCache, err := lru.New(fuzzyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating diagnosis cache: %w", err)
	}
	drugCache, err := lru.New(fuzzyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating drug cache: %w", err)
	}
	s.diagnosisCache = diagnosisCache
	s.drugCache = drugCache

	logger.WithFields(logrus.Fields{
		"genes":     len(s.genes),
		"drugs":     len(s.drugs),
		"diagnoses": len(s.diagnoses),
	}).Info("Vocabularies loaded")

	return s, nil
}

// loadFile reads a vocabulary file from dir when present, falling back to
// the embedded copy.
func (s *Service) loadFile(dir, name string, out interface{}) error {
	if dir != "" {
		path := filepath.Join(dir, name)
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			return nil
		}
	}

	data, err := embeddedVocabularies.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("reading embedded %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing embedded %s: %w", name, err)
	}
	return nil
}

// LookupGene maps a gene symbol to its HGNC code. Fusion symbols are
// resolved by their first partner.
func (s *Service) LookupGene(symbol string) *domain.GeneCode {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if idx := strings.Index(key, "::"); idx >= 0 {
		key = key[:idx]
	}
	return s.genes[key]
}

// IsKnownGene reports gene-symbol membership.
func (s *Service) IsKnownGene(symbol string) bool {
	_, ok := s.genes[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// LookupDrug maps a drug name to its RxNorm code. Exact match first, then
// fuzzy above the drug cutoff. Fuzzy results are memoized.
func (s *Service) LookupDrug(name string) *domain.DrugCode {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil
	}
	if code, ok := s.drugs[key]; ok {
		return code
	}

	if cached, ok := s.drugCache.Get(key); ok {
		code, _ := cached.(*domain.DrugCode)
		return code
	}

	code := s.fuzzyDrug(key)
	s.drugCache.Add(key, code)
	return code
}

// LookupDiagnosis maps diagnosis text to an ICD-O code using exact,
// substring, then fuzzy matching. Fuzzy results are memoized.
func (s *Service) LookupDiagnosis(text string) *domain.DiagnosisCode {
	key := strings.ToLower(strings.TrimSpace(text))
	if key == "" {
		return nil
	}
	if code, ok := s.diagnoses[key]; ok {
		return code
	}

	if cached, ok := s.diagnosisCache.Get(key); ok {
		code, _ := cached.(*domain.DiagnosisCode)
		return code
	}

	code := s.matchDiagnosis(key)
	s.diagnosisCache.Add(key, code)
	return code
}

// DrugNames returns all drug names sorted longest-first then lexicographic.
func (s *Service) DrugNames() []string {
	out := make([]string, len(s.drugNames))
	copy(out, s.drugNames)
	return out
}

// Stats returns vocabulary sizes for startup logging.
func (s *Service) Stats() map[string]int {
	return map[string]int{
		"genes":     len(s.genes),
		"drugs":     len(s.drugs),
		"diagnoses": len(s.diagnoses),
	}
}

func (s *Service) matchDiagnosis(key string) *domain.DiagnosisCode {
	// Substring match in either direction.
	for _, k := range s.diagnosisKeys {
		if strings.Contains(key, k) || strings.Contains(k, key) {
			return s.diagnoses[k]
		}
	}

	// Fuzzy match: best similarity above the cutoff wins.
	best, bestScore := "", 0.0
	for _, k := range s.diagnosisKeys {
		if score := similarity(key, k); score > bestScore {
			best, bestScore = k, score
		}
	}
	if bestScore >= diagnosisFuzzyCutoff {
		return s.diagnoses[best]
	}
	return nil
}

func (s *Service) fuzzyDrug(key string) *domain.DrugCode {
	best, bestScore := "", 0.0
	for _, k := range s.drugNames {
		if score := similarity(key, k); score > bestScore {
			best, bestScore = k, score
		}
	}
	if bestScore >= drugFuzzyCutoff {
		return s.drugs[best]
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
