package snapshot

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := Document{
		User: &User{
			ID:          "user-1",
			Email:       "ana@example.com",
			DisplayName: "Ana Silva",
			Role:        "farm_owner",
			Permissions: []string{"report:export"},
		},
		Token:           "abc.def.ghi",
		IsAuthenticated: true,
		SelectedFarm:    &Farm{ID: "farm-1", Name: "Quinta do Vale"},
	}

	encoded, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, ok := Decode(encoded)
	if !ok {
		t.Fatal("Decode failed")
	}
	if got.Version != SchemaVersion {
		t.Fatalf("version = %d", got.Version)
	}
	if got.User == nil || got.User.ID != "user-1" || got.User.Role != "farm_owner" {
		t.Fatalf("user = %+v", got.User)
	}
	if len(got.User.Permissions) != 1 || got.User.Permissions[0] != "report:export" {
		t.Fatalf("permissions = %v", got.User.Permissions)
	}
	if got.SelectedFarm == nil || got.SelectedFarm.Name != "Quinta do Vale" {
		t.Fatalf("farm = %+v", got.SelectedFarm)
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "{", "not json", "[]"} {
		if _, ok := Decode(raw); ok {
			t.Errorf("Decode accepted %q", raw)
		}
	}
}

func TestDecodeToleratesUnknownFields(t *testing.T) {
	raw := `{"version":7,"token":"abc","is_authenticated":true,"future_field":{"x":1}}`

	doc, ok := Decode(raw)
	if !ok {
		t.Fatal("Decode failed on forward-compatible input")
	}
	if doc.Token != "abc" || !doc.IsAuthenticated {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.User != nil {
		t.Fatal("missing user should stay nil")
	}
}
