package domain

// CameraAction tells the 3D body-figure viewer what to do with the extracted
// points.
type CameraAction string

const (
	CameraFocus     CameraAction = "focus"
	CameraHighlight CameraAction = "highlight"
	CameraTour      CameraAction = "tour"
)

// CameraAngle is the viewing angle derived from the extracted points'
// meridian prefixes.
type CameraAngle string

const (
	AngleAnterior     CameraAngle = "anterior"
	AnglePosterior    CameraAngle = "posterior"
	AngleLateralLeft  CameraAngle = "lateral_left"
	AngleLateralRight CameraAngle = "lateral_right"
	AngleSuperior     CameraAngle = "superior"
	AngleAuto         CameraAngle = "auto"
)

// BodyFigureCommand drives the 3D viewer. Derived from the extracted point
// list on every request, never stored.
type BodyFigureCommand struct {
	TargetPoint     string       `json:"target_point"`
	CameraAction    CameraAction `json:"camera_action"`
	CameraAngle     CameraAngle  `json:"camera_angle"`
	SecondaryPoints []string     `json:"secondary_points"`
}

// SourcedItem is a single recommendation tagged with the collection label it
// came from, when known.
type SourcedItem struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// DiagnosisSection is the primary diagnosis text with source attribution.
type DiagnosisSection struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources,omitempty"`
}

// AcupunctureSection holds the extracted acupuncture protocol.
type AcupunctureSection struct {
	PointCodes        []string `json:"point_codes"`
	Technique         string   `json:"technique,omitempty"`
	Contraindications string   `json:"contraindications,omitempty"`
	Sources           []string `json:"sources,omitempty"`
}

// HerbalSection holds the extracted herbal prescription fields.
type HerbalSection struct {
	Formula       string   `json:"formula,omitempty"`
	Ingredients   string   `json:"ingredients,omitempty"`
	Modifications string   `json:"modifications,omitempty"`
	Sources       []string `json:"sources,omitempty"`
}

// StructuredReport is the parsed deep-search output returned to the caller.
type StructuredReport struct {
	Diagnosis   DiagnosisSection   `json:"diagnosis"`
	Acupuncture AcupunctureSection `json:"acupuncture"`
	Herbal      HerbalSection      `json:"herbal"`
	Nutrition   []SourcedItem      `json:"nutrition"`
	Lifestyle   []SourcedItem      `json:"lifestyle"`
	Warnings    []string           `json:"warnings"`
	RawReport   string             `json:"raw_report"`
	PointCodes  []string           `json:"point_codes"`
	BodyFigure  *BodyFigureCommand `json:"body_figure,omitempty"`
}
