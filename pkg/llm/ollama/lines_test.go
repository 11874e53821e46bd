package ollama

import "testing"

func TestFeedCompleteLines(t *testing.T) {
	var p lineParser

	records, err := p.Feed([]byte(`{"response":"He","done":false}` + "\n" + `{"response":"llo","done":false}` + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Response != "He" || records[1].Response != "llo" {
		t.Errorf("records out of order or mangled: %+v", records)
	}
}

func TestFeedBuffersPartialLine(t *testing.T) {
	var p lineParser

	records, err := p.Feed([]byte(`{"response":"He`))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("incomplete line must stay buffered, got %+v", records)
	}

	records, err = p.Feed([]byte(`","done":false}` + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Response != "He" {
		t.Fatalf("expected the completed record, got %+v", records)
	}
}

func TestFeedSplitAcrossManyChunks(t *testing.T) {
	var p lineParser

	line := `{"response":"fragment","done":true}` + "\n"
	var all []streamRecord
	for i := 0; i < len(line); i++ {
		records, err := p.Feed([]byte{line[i]})
		if err != nil {
			t.Fatal(err)
		}
		all = append(all, records...)
	}
	if len(all) != 1 || all[0].Response != "fragment" || !all[0].Done {
		t.Fatalf("byte-at-a-time feed must still yield the record, got %+v", all)
	}
}

func TestFeedSkipsBlankLines(t *testing.T) {
	var p lineParser

	records, err := p.Feed([]byte("\n  \n" + `{"response":"x","done":false}` + "\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Response != "x" {
		t.Fatalf("blank lines must be skipped, got %+v", records)
	}
}

func TestFeedMalformedRecord(t *testing.T) {
	var p lineParser

	_, err := p.Feed([]byte("not json\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed record")
	}
}

func TestFeedErrorRecord(t *testing.T) {
	var p lineParser

	records, err := p.Feed([]byte(`{"error":"model blew up","done":true}` + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Error != "model blew up" {
		t.Fatalf("expected the error field surfaced, got %+v", records)
	}
}
