package core

import (
	"testing"
	"time"
)

func expAt(id string, cat Category, units int64, date time.Time) Expense {
	return Expense{ID: id, OwnerID: "u1", Amount: Money{Units: units}, Category: cat, Date: date}
}

func TestApplyFilterDayPartition(t *testing.T) {
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	records := []Expense{
		expAt("a", CategoryFood, 25000, time.Date(2025, 11, 16, 8, 15, 0, 0, time.UTC)),
		expAt("b", CategoryTransport, 50000, time.Date(2025, 11, 16, 17, 30, 0, 0, time.UTC)),
		expAt("c", CategoryFood, 35000, time.Date(2025, 11, 15, 12, 30, 0, 0, time.UTC)),
		expAt("d", CategoryShopping, 80000, time.Date(2025, 11, 14, 9, 0, 0, 0, time.UTC)),
	}

	today := ApplyFilter(records, Filter{Token: FilterToday}, now)
	yesterday := ApplyFilter(records, Filter{Token: FilterYesterday}, now)

	if len(today) != 2 || len(yesterday) != 1 {
		t.Fatalf("got %d today, %d yesterday; want 2 and 1", len(today), len(yesterday))
	}
	// Disjoint sets whose union plus earlier dates reconstructs the input.
	seen := map[string]bool{}
	for _, e := range today {
		seen[e.ID] = true
	}
	for _, e := range yesterday {
		if seen[e.ID] {
			t.Fatalf("record %s in both Today and Yesterday", e.ID)
		}
		seen[e.ID] = true
	}
	if len(seen)+1 != len(records) {
		t.Fatalf("partition lost records: %d seen of %d", len(seen), len(records))
	}
}

func TestApplyFilterWeekStartsMonday(t *testing.T) {
	// 2025-11-16 is a Sunday: the week started Monday the 10th.
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	records := []Expense{
		expAt("in", CategoryFood, 100, time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)),
		expAt("out", CategoryFood, 100, time.Date(2025, 11, 9, 23, 59, 0, 0, time.UTC)),
	}
	got := ApplyFilter(records, Filter{Token: FilterThisWeek}, now)
	if len(got) != 1 || got[0].ID != "in" {
		t.Fatalf("This Week on a Sunday should start 6 days prior, got %+v", got)
	}
}

func TestApplyFilterPrevMonth(t *testing.T) {
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	records := []Expense{
		expAt("first", CategoryFood, 100, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)),
		expAt("last", CategoryFood, 100, time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC)),
		expAt("before", CategoryFood, 100, time.Date(2025, 9, 30, 23, 59, 0, 0, time.UTC)),
		expAt("after", CategoryFood, 100, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)),
	}
	got := ApplyFilter(records, Filter{Token: FilterPrevMonth}, now)
	if len(got) != 2 {
		t.Fatalf("Prev Month should cover the full previous calendar month, got %d records", len(got))
	}
	for _, e := range got {
		if e.ID != "first" && e.ID != "last" {
			t.Fatalf("unexpected record %s in Prev Month", e.ID)
		}
	}
}

func TestApplyFilterCategoryAndSearch(t *testing.T) {
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	records := []Expense{
		{ID: "a", OwnerID: "u1", Amount: Money{Units: 100}, Category: CategoryFood,
			LocationName: "Grand Indonesia", Date: now},
		{ID: "b", OwnerID: "u1", Amount: Money{Units: 100}, Category: CategoryFood,
			Note: "lunch with team", Date: now},
		{ID: "c", OwnerID: "u1", Amount: Money{Units: 100}, Category: CategoryTransport,
			LocationName: "grand station", Date: now},
	}

	byCat := ApplyFilter(records, Filter{Token: "Food"}, now)
	if len(byCat) != 2 {
		t.Fatalf("category filter matched %d, want 2", len(byCat))
	}

	// Search is ANDed with the token filter.
	both := ApplyFilter(records, Filter{Token: "Food", Search: "GRAND"}, now)
	if len(both) != 1 || both[0].ID != "a" {
		t.Fatalf("search+category filter got %+v", both)
	}

	// Search alone matches location name, note and category.
	byNote := ApplyFilter(records, Filter{Search: "lunch"}, now)
	if len(byNote) != 1 || byNote[0].ID != "b" {
		t.Fatalf("note search got %+v", byNote)
	}
	byCatText := ApplyFilter(records, Filter{Search: "transp"}, now)
	if len(byCatText) != 1 || byCatText[0].ID != "c" {
		t.Fatalf("category text search got %+v", byCatText)
	}
}

func TestApplyFilterSortsNewestFirst(t *testing.T) {
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	records := []Expense{
		expAt("old", CategoryFood, 100, now.Add(-48*time.Hour)),
		expAt("new", CategoryFood, 100, now.Add(-time.Hour)),
		expAt("mid", CategoryFood, 100, now.Add(-24*time.Hour)),
	}
	got := ApplyFilter(records, Filter{}, now)
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}
