package selector

import (
	"testing"

	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/utils"
)

func problem(cid int, idx string, rating int) models.Problem {
	return models.Problem{ContestID: cid, Index: idx, Name: idx, Rating: models.Rating(rating)}
}

func testCatalog() []models.Problem {
	return []models.Problem{
		problem(1, "A", 800),
		problem(2, "B", 1100),
		problem(3, "C", 1400),
		problem(4, "D", 1700),
		problem(5, "E", 1900),
		problem(6, "F", 2400),
		{ContestID: 7, Index: "G", Name: "unrated"},
	}
}

func TestSelectDeterministic(t *testing.T) {
	in := Input{Date: "2025-03-01", Handle: "alice", Catalog: testCatalog(), Rating: 1500}

	first, err := Select(in)
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Select(in)
		if err != nil {
			t.Fatalf("Select() failed: %v", err)
		}
		if !again.Global.Same(first.Global) {
			t.Errorf("global changed between calls: %s vs %s", again.Global.Key(), first.Global.Key())
		}
		if !again.Personal.Same(*first.Personal) {
			t.Errorf("personal changed between calls: %s vs %s", again.Personal.Key(), first.Personal.Key())
		}
	}
}

func TestSelectGlobalFilter(t *testing.T) {
	catalog := []models.Problem{problem(1, "A", 900), problem(2, "B", 2200)}

	// Whatever the seed, only 1-A is in [800, 2000].
	for _, date := range []string{"2025-03-01", "2025-12-31", "2026-07-04"} {
		sel, err := Select(Input{Date: date, Catalog: catalog})
		if err != nil {
			t.Fatalf("Select(%s) failed: %v", date, err)
		}
		if sel.Global.Key() != "1-A" {
			t.Errorf("Select(%s) global = %s, want 1-A", date, sel.Global.Key())
		}
		if sel.Personal != nil {
			t.Errorf("Select(%s) personal = %v, want nil without handle", date, sel.Personal)
		}
	}
}

func TestSelectGlobalMatchesSeed(t *testing.T) {
	catalog := testCatalog()
	sel, err := Select(Input{Date: "2025-03-01", Catalog: catalog})
	if err != nil {
		t.Fatal(err)
	}
	pool := Candidates(catalog, 800, 2000, nil)
	want := pool[utils.PickIndex(20250301, len(pool))]
	if !sel.Global.Same(want) {
		t.Errorf("global = %s, want %s", sel.Global.Key(), want.Key())
	}
}

func TestSelectEmptyCandidates(t *testing.T) {
	catalog := []models.Problem{problem(1, "A", 3000), {ContestID: 2, Index: "B"}}
	_, err := Select(Input{Date: "2025-03-01", Catalog: catalog})
	if !errors.Is(err, errors.ErrEmptyCandidates) {
		t.Errorf("Select() error = %v, want ErrEmptyCandidates", err)
	}

	_, err = Select(Input{Date: "2025-03-01"})
	if !errors.Is(err, errors.ErrEmptyCandidates) {
		t.Errorf("Select() on nil catalog error = %v, want ErrEmptyCandidates", err)
	}
}

func TestSelectInvalidDate(t *testing.T) {
	if _, err := Select(Input{Date: "202531", Catalog: testCatalog()}); err == nil {
		t.Error("Select() accepted a malformed date key")
	}
}

func TestPersonalExcludesSolved(t *testing.T) {
	catalog := []models.Problem{
		problem(10, "B", 1500),
		problem(11, "C", 1600),
		problem(12, "D", 1900),
	}
	solved := map[string]struct{}{"10-B": {}}

	// Rating 1500 gives [1300, 1700]; 12-D is out of window, 10-B solved.
	for _, date := range []string{"2025-03-01", "2025-03-02", "2025-11-20"} {
		sel, err := Select(Input{Date: date, Handle: "alice", Catalog: catalog, Rating: 1500, Solved: solved})
		if err != nil {
			t.Fatalf("Select() failed: %v", err)
		}
		if sel.Personal == nil || sel.Personal.Key() != "11-C" {
			t.Errorf("Select(%s) personal = %v, want 11-C", date, sel.Personal)
		}
	}
}

func TestPersonalFallsBackToGlobal(t *testing.T) {
	catalog := []models.Problem{problem(1, "A", 900), problem(2, "B", 1000)}
	solved := map[string]struct{}{"1-A": {}, "2-B": {}}

	sel, err := Select(Input{Date: "2025-03-01", Handle: "bob", Catalog: catalog, Solved: solved})
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	if sel.Personal == nil {
		t.Fatal("personal = nil, want global fallback")
	}
	if !sel.Personal.Same(sel.Global) {
		t.Errorf("personal = %s, want global %s", sel.Personal.Key(), sel.Global.Key())
	}
	if sel.Handle != "bob" {
		t.Errorf("Handle = %q, want bob", sel.Handle)
	}
}

func TestPersonalSeedUsesHandle(t *testing.T) {
	var catalog []models.Problem
	for i := 1; i <= 50; i++ {
		catalog = append(catalog, problem(i, "A", 1000+i))
	}

	p := Personal("2025-03-01", "alice", catalog, 0, nil)
	if p == nil {
		t.Fatal("Personal() = nil")
	}
	pool := Candidates(catalog, 800, 1200, nil)
	seed := int64(20250301) + int64(utils.StringHash("alice"))
	if want := pool[utils.PickIndex(seed, len(pool))]; !p.Same(want) {
		t.Errorf("Personal() = %s, want %s", p.Key(), want.Key())
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		rating int
		lo, hi int
	}{
		{0, 800, 1200},
		{999, 800, 1200},
		{1000, 800, 1200},
		{1500, 1300, 1700},
		{2400, 2200, 2600},
	}
	for _, tt := range tests {
		lo, hi := Window(tt.rating)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("Window(%d) = [%d,%d], want [%d,%d]", tt.rating, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestSolvedSet(t *testing.T) {
	subs := []models.Submission{
		{Problem: models.Problem{ContestID: 1, Index: "A"}, Verdict: "OK"},
		{Problem: models.Problem{ContestID: 1, Index: "B"}, Verdict: "WRONG_ANSWER"},
		{Problem: models.Problem{ContestID: 2, Index: "C"}, Verdict: ""},
		{Problem: models.Problem{ContestID: 1, Index: "A"}, Verdict: "OK"},
	}
	solved := SolvedSet(subs)
	if len(solved) != 1 {
		t.Errorf("SolvedSet() size = %d, want 1", len(solved))
	}
	if _, ok := solved["1-A"]; !ok {
		t.Error("SolvedSet() missing 1-A")
	}
}
