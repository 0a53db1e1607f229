package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/statestore"
)

func testParams() CreateParams {
	return CreateParams{
		Name: "orders",
		Columns: []grid.Column{
			{ID: "name", Title: "Name"},
			{ID: "status", Title: "Status", Filter: []any{"open", "closed"}},
			{ID: "amount", Title: "Amount", Filter: "number"},
		},
		Records: []any{
			map[string]any{"id": float64(1), "name": "Charlie", "status": "open", "amount": float64(30)},
			map[string]any{"id": float64(2), "name": "Alice", "status": "closed", "amount": float64(10)},
			map[string]any{"id": float64(3), "name": "Bob", "status": "open", "amount": float64(20)},
		},
	}
}

func rowIDs(rows []RowView) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Detail {
			ids = append(ids, r.ID+"+")
			continue
		}
		ids = append(ids, r.ID)
	}
	return ids
}

func TestCreateSession(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	ctx := ContextWithClientIP(context.Background(), "10.0.0.1")
	sess, err := svc.CreateSession(ctx, testParams())
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session id is empty")
	}
	if sess.Name != "orders" {
		t.Errorf("Name = %q, want %q", sess.Name, "orders")
	}

	got, err := svc.Session(sess.ID)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if got != sess {
		t.Error("Session() returned a different session")
	}

	info := sess.Info()
	if info.Records != 3 || info.Visible != 3 {
		t.Errorf("Info() records/visible = %d/%d, want 3/3", info.Records, info.Visible)
	}
	if info.ClientIP != "10.0.0.1" {
		t.Errorf("Info().ClientIP = %q, want %q", info.ClientIP, "10.0.0.1")
	}
	if info.Lang != "en" {
		t.Errorf("Info().Lang = %q, want %q", info.Lang, "en")
	}
}

func TestCreateSession_DefaultName(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	p := testParams()
	p.Name = ""
	sess, err := svc.CreateSession(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if !strings.HasPrefix(sess.Name, "grid-") || len(sess.Name) != len("grid-")+8 {
		t.Errorf("Name = %q, want grid-<8 chars>", sess.Name)
	}
}

func TestCreateSession_UnknownStyle(t *testing.T) {
	svc := NewService(nil, Config{})

	p := testParams()
	p.Styles = map[string]string{"bogus": "x"}
	_, err := svc.CreateSession(context.Background(), p)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("CreateSession() error = %v, want ErrInvalidRequest", err)
	}
	if n := svc.SessionCount(); n != 0 {
		t.Errorf("SessionCount() = %d, want 0", n)
	}
}

func TestCreateSession_InitialSortAndFilter(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	p := testParams()
	p.Sort = &SortParams{Column: "name", Direction: 1}
	p.Filters = grid.Filters{"status": {"closed": "1"}}
	sess, err := svc.CreateSession(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	snap, err := sess.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	want := []string{"3", "1"}
	got := rowIDs(snap.Rows)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if snap.SortColumn != "name" || snap.SortOrder != 1 {
		t.Errorf("sort = %q/%d, want name/1", snap.SortColumn, snap.SortOrder)
	}
	if len(snap.Rows[0].Cells) != 3 || snap.Rows[0].Cells[0].Text != "Bob" {
		t.Errorf("first row cells = %+v", snap.Rows[0].Cells)
	}
}

func TestCreateSession_MaxSessions(t *testing.T) {
	svc := NewService(nil, Config{MaxSessions: 1})
	defer svc.Close()

	if _, err := svc.CreateSession(context.Background(), testParams()); err != nil {
		t.Fatalf("first CreateSession() error = %v", err)
	}
	_, err := svc.CreateSession(context.Background(), testParams())
	if !errors.Is(err, ErrTooManySessions) {
		t.Errorf("second CreateSession() error = %v, want %v", err, ErrTooManySessions)
	}
}

func TestDeleteSession(t *testing.T) {
	svc := NewService(nil, Config{})

	sess, err := svc.CreateSession(context.Background(), testParams())
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if err := svc.DeleteSession(sess.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.Session(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session() after delete error = %v, want %v", err, ErrSessionNotFound)
	}
	if err := svc.DeleteSession(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second DeleteSession() error = %v, want %v", err, ErrSessionNotFound)
	}

	// A closed session rejects further work
	err = sess.Do(func(*grid.Grid) error { return nil })
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Do() on closed session error = %v, want %v", err, ErrSessionNotFound)
	}
}

func TestSessions_Ordered(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	first, _ := svc.CreateSession(context.Background(), testParams())
	second, _ := svc.CreateSession(context.Background(), testParams())
	first.Created = time.Now().Add(-time.Minute)

	list := svc.Sessions()
	if len(list) != 2 {
		t.Fatalf("Sessions() len = %d, want 2", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("Sessions() order = %s,%s, want %s,%s", list[0].ID, list[1].ID, first.ID, second.ID)
	}
}

func TestSession_VersionFollowsInteractiveChanges(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	sess, _ := svc.CreateSession(context.Background(), testParams())
	err := sess.Do(func(g *grid.Grid) error {
		g.HeaderClick("amount")
		g.ClearColumnFilter("status")
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	snap, _ := sess.Snapshot()
	if snap.Version != 1 {
		t.Errorf("Version = %d, want 1", snap.Version)
	}
	if got := strings.Join(rowIDs(snap.Rows), ","); got != "2,3,1" {
		t.Errorf("rows = %s, want 2,3,1", got)
	}
}

func TestSession_DetailAndEditorInSnapshot(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	sess, _ := svc.CreateSession(context.Background(), testParams())
	_ = sess.Do(func(g *grid.Grid) error {
		g.ShowItemInfo("2")
		g.CellEditMode("1", "status")
		return nil
	})

	snap, _ := sess.Snapshot()
	if got := strings.Join(rowIDs(snap.Rows), ","); got != "1,2,2+,3" {
		t.Fatalf("rows = %s, want 1,2,2+,3", got)
	}
	if !strings.Contains(snap.Rows[2].Content, "Alice") {
		t.Errorf("detail content = %q, want it to mention Alice", snap.Rows[2].Content)
	}
	if snap.Editor == nil {
		t.Fatal("Editor is nil")
	}
	if snap.Editor.Kind != "choice" || snap.Editor.Value != "open" {
		t.Errorf("Editor = %+v, want choice editor with value open", snap.Editor)
	}
	if snap.Rows[0].Editing != "status" {
		t.Errorf("Rows[0].Editing = %q, want status", snap.Rows[0].Editing)
	}
}

func TestSession_Render(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	sess, _ := svc.CreateSession(context.Background(), testParams())

	var table bytes.Buffer
	if err := sess.RenderTable(context.Background(), &table); err != nil {
		t.Fatalf("RenderTable() error = %v", err)
	}
	if !strings.Contains(table.String(), "Charlie") {
		t.Error("table does not contain record text")
	}

	var page bytes.Buffer
	if err := sess.RenderPage(context.Background(), &page); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if !strings.Contains(page.String(), "<title>orders</title>") {
		t.Errorf("page has no title: %s", page.String())
	}
}

func TestSession_PersistsViewStateByName(t *testing.T) {
	store := statestore.NewMemory()
	svc := NewService(store, Config{AutoSave: true})
	defer svc.Close()

	sess, _ := svc.CreateSession(context.Background(), testParams())
	_ = sess.Do(func(g *grid.Grid) error {
		g.HeaderClick("amount")
		g.HeaderClick("amount")
		return nil
	})

	// A second session with the same name starts from the saved sort
	next, err := svc.CreateSession(context.Background(), testParams())
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	snap, _ := next.Snapshot()
	if snap.SortColumn != "amount" || snap.SortOrder != -1 {
		t.Errorf("sort = %q/%d, want amount/-1", snap.SortColumn, snap.SortOrder)
	}
	if got := strings.Join(rowIDs(snap.Rows), ","); got != "1,3,2" {
		t.Errorf("rows = %s, want 1,3,2", got)
	}
}
