package metadata

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseNoMarkerReturnsSourceUnchanged(t *testing.T) {
	src := "a = 1\nb = 2\n"
	block, body, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if block != nil {
		t.Errorf("block = %+v, want nil", block)
	}
	if body != src {
		t.Errorf("body = %q, want unchanged %q", body, src)
	}
}

func TestParseAndFormatRoundtrip(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	source := "a = 1\nb = 2\n"
	footer, err := Format(&Block{Records: []Record{
		{Index: 0, Size: 5, ID: id1},
		{Index: 6, Size: 5, ID: id2},
	}})
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	full := source + footer
	block, body, err := Parse(full)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if body != source {
		t.Errorf("body = %q, want %q", body, source)
	}
	if block == nil || len(block.Records) != 2 {
		t.Fatalf("block = %+v, want 2 records", block)
	}
	if block.Records[0].ID != id1 || block.Records[1].ID != id2 {
		t.Errorf("records = %+v, want ids %s, %s", block.Records, id1, id2)
	}
	if block.Records[0].Size != 5 || block.Records[1].Index != 6 {
		t.Errorf("records = %+v, unexpected index/size", block.Records)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	src := "a = 1\n" + Marker + "\nnot json\n"
	if _, _, err := Parse(src); err == nil {
		t.Error("Parse(malformed) = nil error, want an error")
	}
}
