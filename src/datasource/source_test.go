package datasource

import "testing"

func storeWith(names ...string) *Store {
	st := NewStore()
	for _, n := range names {
		st.Add(&DataSource{Name: n, SheetNames: []string{"race"}})
	}
	return st
}

func TestStoreOrderAndLookup(t *testing.T) {
	st := storeWith("MIDRC", "CDC", "Census")
	if st.Len() != 3 {
		t.Fatalf("Len = %d, want 3", st.Len())
	}
	names := st.Names()
	want := []string{"MIDRC", "CDC", "Census"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("Names[%d] = %q, want %q", i, names[i], n)
		}
		if got := st.IndexOf(n); got != i {
			t.Fatalf("IndexOf(%q) = %d, want %d", n, got, i)
		}
		src, err := st.ByIndex(i)
		if err != nil {
			t.Fatalf("ByIndex(%d): %v", i, err)
		}
		if src.Name != n {
			t.Fatalf("ByIndex(%d).Name = %q, want %q", i, src.Name, n)
		}
	}
	if got := st.IndexOf("nope"); got != -1 {
		t.Fatalf("IndexOf(nope) = %d, want -1", got)
	}
	if _, ok := st.ByName("nope"); ok {
		t.Fatalf("ByName(nope) unexpectedly found")
	}
	if _, err := st.ByIndex(3); err == nil {
		t.Fatalf("ByIndex(3) expected error")
	}
	if _, err := st.ByIndex(-1); err == nil {
		t.Fatalf("ByIndex(-1) expected error")
	}
}

func TestStoreReplaceKeepsPosition(t *testing.T) {
	st := storeWith("MIDRC", "CDC")
	st.Add(&DataSource{Name: "MIDRC", Description: "reloaded"})
	if st.Len() != 2 {
		t.Fatalf("Len after replace = %d, want 2", st.Len())
	}
	if got := st.IndexOf("MIDRC"); got != 0 {
		t.Fatalf("IndexOf(MIDRC) after replace = %d, want 0", got)
	}
	src, ok := st.ByName("MIDRC")
	if !ok || src.Description != "reloaded" {
		t.Fatalf("replace did not take: ok=%v desc=%q", ok, src.Description)
	}
}

func TestStoreNamesIsCopy(t *testing.T) {
	st := storeWith("MIDRC", "CDC")
	names := st.Names()
	names[0] = "mutated"
	if st.Names()[0] != "MIDRC" {
		t.Fatalf("Names() must return a copy")
	}
}

func TestDataSourceSheetLookup(t *testing.T) {
	sheet := testSheet(t)
	src := &DataSource{
		Name:       "MIDRC",
		SheetNames: []string{"race"},
		Sheets:     map[string]*DataSheet{"race": sheet},
	}
	got, ok := src.Sheet("race")
	if !ok || got != sheet {
		t.Fatalf("Sheet(race) = %v, %v", got, ok)
	}
	if _, ok := src.Sheet("sex"); ok {
		t.Fatalf("Sheet(sex) unexpectedly found")
	}
}
