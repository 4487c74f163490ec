package exercises

import "testing"

func TestCatalogLoads(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatalf("expected embedded catalog to contain exercises")
	}
	for _, ex := range all {
		if ex.ID == 0 || ex.Name == "" || ex.MuscleGroup == "" {
			t.Fatalf("incomplete catalog entry: %+v", ex)
		}
	}
}

func TestByID(t *testing.T) {
	if _, ok := ByID(1); !ok {
		t.Fatalf("expected exercise 1 to exist")
	}
	if _, ok := ByID(99999); ok {
		t.Fatalf("expected unknown id to miss")
	}
}

func TestSearch(t *testing.T) {
	if got := Search(""); len(got) != len(All()) {
		t.Fatalf("empty query should return the full catalog")
	}

	hits := Search("chest")
	if len(hits) == 0 {
		t.Fatalf("expected chest exercises")
	}
	for _, ex := range hits {
		if ex.MuscleGroup != "Chest" {
			t.Fatalf("unexpected hit for chest query: %+v", ex)
		}
	}

	if got := Search("no-such-exercise"); len(got) != 0 {
		t.Fatalf("expected no hits, got %d", len(got))
	}
}

func TestTemplatesReferenceKnownExercises(t *testing.T) {
	ts := Templates()
	if len(ts) == 0 {
		t.Fatalf("expected embedded templates")
	}
	for _, tpl := range ts {
		if len(tpl.Workouts) == 0 {
			t.Fatalf("template %q has no workouts", tpl.ID)
		}
		for _, w := range tpl.Workouts {
			for _, id := range w.Exercises {
				if _, ok := ByID(id); !ok {
					t.Fatalf("template %q references unknown exercise %d", tpl.ID, id)
				}
			}
		}
	}
}

func TestTemplateByID(t *testing.T) {
	if _, ok := TemplateByID("push-pull-legs"); !ok {
		t.Fatalf("expected push-pull-legs template")
	}
	if _, ok := TemplateByID("missing"); ok {
		t.Fatalf("expected miss for unknown template id")
	}
}
