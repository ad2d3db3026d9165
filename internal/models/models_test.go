package models

import (
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

func TestSupportSession_Fields(t *testing.T) {
	typ := reflect.TypeOf(SupportSession{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "SessionKey", "size:128")
	assertGormTag(t, typ, "SessionKey", "not null")
	assertGormTag(t, typ, "SessionKey", "uniqueIndex")
	assertGormTag(t, typ, "Flow", "size:16")
	assertGormTag(t, typ, "Stage", "size:32")
	assertGormTag(t, typ, "Stage", "default:idle")
	assertGormTag(t, typ, "BookingID", "size:128")
	assertGormTag(t, typ, "Reason", "size:255")
	assertGormTag(t, typ, "TicketID", "size:16")
	assertGormTag(t, typ, "UpdatedAt", "index")
	assertGormTag(t, typ, "Transcript", "foreignKey:SessionID")
}

func TestTranscriptEntry_Fields(t *testing.T) {
	typ := reflect.TypeOf(TranscriptEntry{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "SessionID", "not null")
	assertGormTag(t, typ, "SessionID", "index")
	assertGormTag(t, typ, "Sequence", "not null")
	assertGormTag(t, typ, "Role", "size:16")
	assertGormTag(t, typ, "Content", "type:text")
	assertGormTag(t, typ, "Session", "foreignKey:SessionID")
}

func TestSupportTicket_Fields(t *testing.T) {
	typ := reflect.TypeOf(SupportTicket{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "TicketID", "size:16")
	assertGormTag(t, typ, "TicketID", "index")
	assertGormTag(t, typ, "SessionKey", "size:128")
	assertGormTag(t, typ, "SessionKey", "index")
	assertGormTag(t, typ, "Flow", "size:16")
	assertGormTag(t, typ, "Escalated", "default:false")

	// Ticket IDs are probabilistically unique draws; the index must not
	// enforce uniqueness.
	if tag := gormTag(t, typ, "TicketID"); strings.Contains(tag, "uniqueIndex") {
		t.Errorf("TicketID tag = %q, must not be a unique index", tag)
	}
}
