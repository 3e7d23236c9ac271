package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeTagName(t *testing.T) {
	if got := NormalizeTagName("CampFire"); got != "campfire" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeTagName("already"); got != "already" {
		t.Errorf("got %q", got)
	}
}

func TestOptionalLocationMarshal(t *testing.T) {
	empty, err := json.Marshal(OptionalLocation{})
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != "{}" {
		t.Errorf("absent location: got %s, want {}", empty)
	}

	addr := "somewhere"
	full, err := json.Marshal(OptionalLocation{Location: &Location{
		Lat: 1.5, Lon: 2.5, Address: &addr,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(full), `"lat":1.5`) {
		t.Errorf("present location: got %s", full)
	}
}

func TestUserStatusValid(t *testing.T) {
	for _, status := range UserStatuses {
		if !status.Valid() {
			t.Errorf("seeded status %q reported invalid", status)
		}
	}
	if UserStatus("banished").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestRelationshipTypeValid(t *testing.T) {
	for _, rt := range RelationshipTypes {
		if !rt.Valid() {
			t.Errorf("seeded type %q reported invalid", rt)
		}
	}
	if RelationshipType("nemesis").Valid() {
		t.Error("unknown type reported valid")
	}
}

func TestUserCredentialsNeverSerialize(t *testing.T) {
	secondary := "alt"
	u := User{
		EmailAddress:   "digest-a",
		SecondaryLogin: &secondary,
		Password:       "digest-b",
	}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	for _, leaked := range []string{"digest-a", "digest-b", "alt"} {
		if strings.Contains(string(data), leaked) {
			t.Errorf("credential %q leaked into JSON: %s", leaked, data)
		}
	}
}

func TestPathSeparator(t *testing.T) {
	if PathSeparator != `\` {
		t.Errorf("got %q", PathSeparator)
	}
}
