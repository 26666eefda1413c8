package vault

import (
	"testing"

	"github.com/starford/ehwaz/internal/storage"
)

func testStore(t *testing.T, files map[string]string) storage.Provider {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for p, c := range files {
		if err := store.Write(p, []byte(c)); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestLoad_BuildsRegistry(t *testing.T) {
	store := testStore(t, map[string]string{
		"a.md": "---\nid: \"100\"\ntitle: Alpha\n---\nbody\n",
		"b.md": "---\nid: \"200\"\ntitle: Beta\n---\nSee [[100]].\n",
	})

	snap, err := Load(store, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(snap.Documents))
	}
	doc, ok := snap.Registry.Lookup("100")
	if !ok || doc.Title != "Alpha" {
		t.Errorf("registry lookup 100 = %+v, %v", doc, ok)
	}
	if _, ok := snap.Registry.Lookup("200"); !ok {
		t.Error("registry missing id 200")
	}
}

func TestLoad_DuplicateIDFirstWins(t *testing.T) {
	store := testStore(t, map[string]string{
		"a.md": "---\nid: dup\ntitle: First\n---\n",
		"b.md": "---\nid: dup\ntitle: Second\n---\n",
	})

	snap, err := Load(store, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Duplicates) != 1 {
		t.Errorf("duplicates = %v, want one entry", snap.Duplicates)
	}
	if doc, _ := snap.Registry.Lookup("dup"); doc == nil {
		t.Error("registry lost the id entirely")
	}
}

func TestBuildDocument_FilenameStemID(t *testing.T) {
	doc, err := BuildDocument("topics/my-note.md", []byte("# My Note\ntext\n"))
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if doc.ID != "my-note" {
		t.Errorf("id = %q, want my-note", doc.ID)
	}
	if doc.Title != "My Note" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Checksum == "" {
		t.Error("missing checksum")
	}
}
