package domain

import "fmt"

// DefaultCollectionLabel is the shared last-resort knowledge base queried
// when a topic's primary and fallback collections both come up empty.
const DefaultCollectionLabel = "clinic_general_knowledge"

// ModuleTopic maps a clinical topic module to its knowledge-base collections.
// FallbackLabel may be empty when the topic has no dedicated fallback.
type ModuleTopic struct {
	ModuleID      int
	Name          string
	PrimaryLabel  string
	FallbackLabel string
}

// CrossRefKey identifies one of the three fixed cross-reference sweeps that
// run alongside every primary topic search.
type CrossRefKey string

const (
	CrossRefNutrition CrossRefKey = "nutrition"
	CrossRefLifestyle CrossRefKey = "lifestyle"
	CrossRefMindset   CrossRefKey = "mindset"
)

// CrossReferenceTopic binds a cross-reference key to its module topic.
type CrossReferenceTopic struct {
	Key   CrossRefKey
	Topic ModuleTopic
}

// moduleTable is the hand-authored module → knowledge-base mapping. It is a
// closed set: unknown module ids fail before any retrieval is attempted.
var moduleTable = []ModuleTopic{
	{1, "Tongue Diagnosis", "Tongue Diagnosis Q&A", "clinic_tongue_diagnosis"},
	{2, "Face Diagnosis", "Face Diagnosis Q&A", "clinic_face_diagnosis"},
	{3, "Ear Diagnosis", "Ear Diagnosis Q&A", "clinic_ear_diagnosis"},
	{4, "Pulse Diagnosis", "Pulse Diagnosis Q&A", "clinic_pulse_diagnosis"},
	{5, "Abdominal Diagnosis", "Abdominal Diagnosis Q&A", "clinic_abdominal_diagnosis"},
	{6, "Headache & Migraine", "Headache & Migraine Q&A", "clinic_headache_migraine"},
	{7, "Digestive Disorders", "Digestive Disorders Q&A", "clinic_digestive_disorders"},
	{8, "Respiratory Disorders", "Respiratory Disorders Q&A", "clinic_respiratory_disorders"},
	{9, "Sleep & Insomnia", "Sleep & Insomnia Q&A", "clinic_sleep_insomnia"},
	{10, "Stress & Anxiety", "Stress & Anxiety Q&A", "clinic_stress_anxiety"},
	{11, "Women's Health", "Women's Health Q&A", "clinic_womens_health"},
	{12, "Fertility Support", "Fertility Support Q&A", "clinic_fertility_support"},
	{13, "Pregnancy Care", "Pregnancy Care Q&A", "clinic_pregnancy_care"},
	{14, "Menopause", "Menopause Q&A", "clinic_menopause"},
	{15, "Men's Health", "Men's Health Q&A", "clinic_mens_health"},
	{16, "Pediatrics", "Pediatrics Q&A", "clinic_pediatrics"},
	{17, "Dermatology", "Dermatology Q&A", "clinic_dermatology"},
	{18, "Musculoskeletal Pain", "Musculoskeletal Pain Q&A", "clinic_musculoskeletal_pain"},
	{19, "Back & Neck Pain", "Back & Neck Pain Q&A", "clinic_back_neck_pain"},
	{20, "Joint Disorders", "Joint Disorders Q&A", "clinic_joint_disorders"},
	{21, "Sports Injuries", "Sports Injuries Q&A", "clinic_sports_injuries"},
	{22, "Neurological Disorders", "Neurological Disorders Q&A", "clinic_neurological_disorders"},
	{23, "Cardiovascular Support", "Cardiovascular Support Q&A", "clinic_cardiovascular_support"},
	{24, "Hypertension", "Hypertension Q&A", "clinic_hypertension"},
	{25, "Metabolic & Weight", "Metabolic & Weight Q&A", "clinic_metabolic_weight"},
	{26, "Diabetes Support", "Diabetes Support Q&A", "clinic_diabetes_support"},
	{27, "Immune Support", "Immune Support Q&A", "clinic_immune_support"},
	{28, "Allergies", "Allergies Q&A", "clinic_allergies"},
	{29, "Chronic Fatigue", "Chronic Fatigue Q&A", "clinic_chronic_fatigue"},
	{30, "Nutrition Therapy", "Nutrition Therapy Q&A", "clinic_nutrition_therapy"},
	{31, "Lifestyle Medicine", "Lifestyle Medicine Q&A", "clinic_lifestyle_medicine"},
	{32, "Mindset & Emotions", "Mindset & Emotions Q&A", "clinic_mindset_emotions"},
	{33, "Five Elements Theory", "Five Elements Theory Q&A", ""},
	{34, "Meridian Theory", "Meridian Theory Q&A", ""},
	{35, "Acupuncture Points", "Acupuncture Points Q&A", "clinic_acupuncture_points"},
	{36, "Herbal Formulas", "Herbal Formulas Q&A", "clinic_herbal_formulas"},
	{37, "Moxibustion & Cupping", "Moxibustion & Cupping Q&A", "clinic_moxibustion_cupping"},
	{38, "Qi Gong & Movement", "Qi Gong & Movement Q&A", "clinic_qi_gong_movement"},
	{39, "Seasonal Health", "Seasonal Health Q&A", ""},
	{40, "Geriatrics", "Geriatrics Q&A", "clinic_geriatrics"},
}

// crossRefModules binds the three fixed sweeps to module table entries.
var crossRefModules = map[CrossRefKey]int{
	CrossRefNutrition: 30,
	CrossRefLifestyle: 31,
	CrossRefMindset:   32,
}

// TopicCatalog is the immutable module → topic lookup, resolved once at
// process start.
type TopicCatalog struct {
	byID      map[int]ModuleTopic
	crossRefs []CrossReferenceTopic
}

// NewTopicCatalog builds the catalog from the static module table.
func NewTopicCatalog() *TopicCatalog {
	byID := make(map[int]ModuleTopic, len(moduleTable))
	for _, t := range moduleTable {
		byID[t.ModuleID] = t
	}

	crossRefs := make([]CrossReferenceTopic, 0, len(crossRefModules))
	for _, key := range []CrossRefKey{CrossRefNutrition, CrossRefLifestyle, CrossRefMindset} {
		crossRefs = append(crossRefs, CrossReferenceTopic{Key: key, Topic: byID[crossRefModules[key]]})
	}

	return &TopicCatalog{byID: byID, crossRefs: crossRefs}
}

// Topic resolves a module id, returning ErrUnknownModule for ids outside the
// closed set.
func (c *TopicCatalog) Topic(moduleID int) (ModuleTopic, error) {
	t, ok := c.byID[moduleID]
	if !ok {
		return ModuleTopic{}, fmt.Errorf("module %d: %w", moduleID, ErrUnknownModule)
	}
	return t, nil
}

// CrossRefs returns the three fixed cross-reference topics in their
// definition order (nutrition, lifestyle, mindset).
func (c *TopicCatalog) CrossRefs() []CrossReferenceTopic {
	return c.crossRefs
}
