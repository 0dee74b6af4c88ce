package form

import (
	"errors"
	"testing"

	krishierrors "github.com/sweetpotato0/krishigpt/errors"
)

func TestCatalogRegisterAndGet(t *testing.T) {
	c := NewCatalog()

	s := &Schema{ID: "test_form", Title: "Test"}
	if err := c.Register(s); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := c.Get("test_form")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Test" {
		t.Errorf("Get() title = %q, want %q", got.Title, "Test")
	}
}

func TestCatalogRegisterDuplicate(t *testing.T) {
	c := NewCatalog()
	s := &Schema{ID: "dup"}
	if err := c.Register(s); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := c.Register(s); err == nil {
		t.Error("duplicate Register() should fail")
	}
}

func TestCatalogRegisterInvalid(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(nil); !errors.Is(err, krishierrors.ErrInvalidInput) {
		t.Errorf("Register(nil) error = %v, want ErrInvalidInput", err)
	}
	if err := c.Register(&Schema{}); !errors.Is(err, krishierrors.ErrInvalidInput) {
		t.Errorf("Register(empty ID) error = %v, want ErrInvalidInput", err)
	}
}

func TestCatalogGetUnknown(t *testing.T) {
	c := NewCatalog()
	if _, err := c.Get("missing"); !errors.Is(err, krishierrors.ErrFormNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrFormNotFound", err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	for _, id := range []string{"crop_info", "problem_report", "location_info", "soil_info"} {
		if _, err := c.Get(id); err != nil {
			t.Errorf("built-in form %q missing: %v", id, err)
		}
	}

	if got := len(c.List()); got != 4 {
		t.Errorf("List() returned %d forms, want 4", got)
	}
}

func TestCropInfoFields(t *testing.T) {
	s := CropInfo()

	names := s.FieldNames()
	want := []string{"crop", "crop_stage", "land_size"}
	if len(names) != len(want) {
		t.Fatalf("field names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("field[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if s.SubmitAction != "update_context" {
		t.Errorf("SubmitAction = %q, want update_context", s.SubmitAction)
	}

	land := s.Fields[2]
	if land.Type != FieldTypeSlider {
		t.Errorf("land_size type = %q, want slider", land.Type)
	}
	if land.Required {
		t.Error("land_size must be optional")
	}
	if land.MinValue != 0.25 || land.MaxValue != 100 || land.Step != 0.25 {
		t.Errorf("land_size range = [%g, %g] step %g, want [0.25, 100] step 0.25", land.MinValue, land.MaxValue, land.Step)
	}

	crop := s.Fields[0]
	if len(crop.Options) != 12 {
		t.Errorf("crop options = %d, want 12", len(crop.Options))
	}
}

func TestProblemReportSubmitsToDiagnosis(t *testing.T) {
	s := ProblemReport()
	if s.SubmitAction != "diagnose_crop_issue" {
		t.Errorf("SubmitAction = %q, want diagnose_crop_issue", s.SubmitAction)
	}
}

func TestBuiltinFormsBilingual(t *testing.T) {
	for _, s := range Default().List() {
		if s.TitleHindi == "" {
			t.Errorf("form %q has no Hindi title", s.ID)
		}
		for _, f := range s.Fields {
			if f.LabelHindi == "" {
				t.Errorf("form %q field %q has no Hindi label", s.ID, f.Name)
			}
		}
	}
}
