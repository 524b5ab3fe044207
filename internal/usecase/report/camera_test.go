package report

import (
	"reflect"
	"testing"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

func TestDeriveBodyFigure_NoPoints(t *testing.T) {
	if cmd := DeriveBodyFigure(nil); cmd != nil {
		t.Fatalf("expected no command for zero points, got %+v", cmd)
	}
}

func TestDeriveBodyFigure_FocusOnFirstPoint(t *testing.T) {
	cmd := DeriveBodyFigure([]string{"ST36", "SP6"})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if cmd.TargetPoint != "ST36" {
		t.Errorf("target = %q, want ST36", cmd.TargetPoint)
	}
	if cmd.CameraAction != domain.CameraFocus {
		t.Errorf("action = %q, want focus", cmd.CameraAction)
	}
	if !reflect.DeepEqual(cmd.SecondaryPoints, []string{"SP6"}) {
		t.Errorf("secondary = %v, want [SP6]", cmd.SecondaryPoints)
	}
}

func TestDeriveBodyFigure_TourAboveThreePoints(t *testing.T) {
	cmd := DeriveBodyFigure([]string{"ST36", "SP6", "LI4", "LR3"})
	if cmd.CameraAction != domain.CameraTour {
		t.Errorf("action = %q, want tour for 4 points", cmd.CameraAction)
	}

	cmd = DeriveBodyFigure([]string{"ST36", "SP6", "LI4"})
	if cmd.CameraAction != domain.CameraFocus {
		t.Errorf("action = %q, want focus for 3 points", cmd.CameraAction)
	}
}

func TestDeriveAngle(t *testing.T) {
	cases := []struct {
		name   string
		points []string
		want   domain.CameraAngle
	}{
		{"posterior majority", []string{"BL23", "BL25", "ST36"}, domain.AnglePosterior},
		{"anterior majority", []string{"ST36", "SP6", "BL23"}, domain.AngleAnterior},
		{"lateral majority", []string{"GB34", "GB20", "BL23"}, domain.AngleLateralLeft},
		{"du counts as posterior", []string{"DU20", "BL23"}, domain.AnglePosterior},
		{"arm meridians are unclassified", []string{"LU7", "LI4", "HT7", "PC6"}, domain.AngleAuto},
		{"anterior lateral tie goes anterior", []string{"ST36", "GB34"}, domain.AngleAnterior},
		{"posterior anterior tie goes auto", []string{"BL23", "ST36"}, domain.AngleAuto},
		{"three way tie goes auto", []string{"BL23", "ST36", "GB34"}, domain.AngleAuto},
		{"single anterior point", []string{"KI3"}, domain.AngleAnterior},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := DeriveBodyFigure(tc.points)
			if cmd.CameraAngle != tc.want {
				t.Errorf("angle for %v = %q, want %q", tc.points, cmd.CameraAngle, tc.want)
			}
		})
	}
}
