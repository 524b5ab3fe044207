package report

// The six fixed report section markers, in emission order. The synthesizer
// instructs the model to start each section with its marker on its own line;
// the extractor slices the raw report on the same markers.
const (
	SectionDiagnosis   = "🩺 Primary Diagnosis"
	SectionAcupuncture = "📍 Acupuncture Protocol"
	SectionHerbal      = "🌿 Herbal Prescription"
	SectionNutrition   = "🥗 Nutrition Advice"
	SectionLifestyle   = "🧘 Lifestyle & Mindset"
	SectionNotes       = "⚠️ Important Notes"
)

// sectionOrder drives both prompt construction and section splitting.
var sectionOrder = []string{
	SectionDiagnosis,
	SectionAcupuncture,
	SectionHerbal,
	SectionNutrition,
	SectionLifestyle,
	SectionNotes,
}
