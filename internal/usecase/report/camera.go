package report

import (
	"strings"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// Meridian prefix → viewing-angle class. Prefixes outside these sets (arm
// meridians like LU, LI, HT, PC) contribute to no class.
var (
	posteriorPrefixes = map[string]struct{}{"BL": {}, "DU": {}}
	anteriorPrefixes  = map[string]struct{}{"RN": {}, "ST": {}, "SP": {}, "KI": {}, "LR": {}}
	lateralPrefixes   = map[string]struct{}{"GB": {}, "TE": {}, "SI": {}}
)

// DeriveBodyFigure computes the 3D-viewer command from the extracted point
// list. Pure function: no command is emitted for zero points; more than 3
// points turn a focus into a tour.
func DeriveBodyFigure(points []string) *domain.BodyFigureCommand {
	if len(points) == 0 {
		return nil
	}

	action := domain.CameraFocus
	if len(points) > 3 {
		action = domain.CameraTour
	}

	secondary := make([]string, 0, len(points)-1)
	secondary = append(secondary, points[1:]...)

	return &domain.BodyFigureCommand{
		TargetPoint:     points[0],
		CameraAction:    action,
		CameraAngle:     deriveAngle(points),
		SecondaryPoints: secondary,
	}
}

// deriveAngle classifies each point's meridian prefix and picks the majority
// class. Generic ties resolve to auto; a tie between anterior and lateral
// resolves to anterior by definition order.
func deriveAngle(points []string) domain.CameraAngle {
	var posterior, anterior, lateral int
	for _, p := range points {
		prefix := meridianPrefix(p)
		switch {
		case contains(posteriorPrefixes, prefix):
			posterior++
		case contains(anteriorPrefixes, prefix):
			anterior++
		case contains(lateralPrefixes, prefix):
			lateral++
		}
	}

	max := posterior
	if anterior > max {
		max = anterior
	}
	if lateral > max {
		max = lateral
	}
	if max == 0 {
		return domain.AngleAuto
	}

	switch {
	case posterior == max && anterior < max && lateral < max:
		return domain.AnglePosterior
	case anterior == max && posterior < max:
		// Covers both a unique anterior majority and the anterior/lateral tie.
		return domain.AngleAnterior
	case lateral == max && posterior < max && anterior < max:
		return domain.AngleLateralLeft
	default:
		return domain.AngleAuto
	}
}

// meridianPrefix returns the leading letters of a point code.
func meridianPrefix(code string) string {
	for i, r := range code {
		if r >= '0' && r <= '9' {
			return strings.ToUpper(code[:i])
		}
	}
	return strings.ToUpper(code)
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
