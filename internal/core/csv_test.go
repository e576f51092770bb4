package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    rune
		wantErr bool
	}{
		{"comma", ",", ',', false},
		{"semicolon", ";", ';', false},
		{"pipe", "|", '|', false},
		{"literal tab", "\t", '\t', false},
		{"escaped tab", "\\t", '\t', false},
		{"tab keyword", "tab", '\t', false},
		{"unsupported", "#", 0, true},
		{"multi char", ",,", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelimiter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeTable_HeaderFirstRow(t *testing.T) {
	data := []byte("name,age\nalice,30\nbob,25\n")

	got, err := DecodeTable(data, ',', true)
	if err != nil {
		t.Fatalf("DecodeTable() error = %v", err)
	}

	wantCols := []string{"name", "age"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", got.Columns, wantCols)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(got.Rows))
	}
	if got.Rows[0]["name"] != "alice" || got.Rows[1]["age"] != "25" {
		t.Errorf("unexpected rows: %v", got.Rows)
	}
}

func TestDecodeTable_NoHeader(t *testing.T) {
	data := []byte("alice,30\nbob,25\n")

	got, err := DecodeTable(data, ',', false)
	if err != nil {
		t.Fatalf("DecodeTable() error = %v", err)
	}

	wantCols := []string{"Column_1", "Column_2"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", got.Columns, wantCols)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(got.Rows))
	}
	if got.Rows[0]["Column_1"] != "alice" {
		t.Errorf("Rows[0][Column_1] = %q, want %q", got.Rows[0]["Column_1"], "alice")
	}
}

func TestDecodeTable_BlankHeaderCells(t *testing.T) {
	data := []byte("name,,city\nalice,30,oslo\n")

	got, err := DecodeTable(data, ',', true)
	if err != nil {
		t.Fatalf("DecodeTable() error = %v", err)
	}

	wantCols := []string{"name", "Column_2", "city"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", got.Columns, wantCols)
	}
}

func TestDecodeTable_DuplicateHeaders(t *testing.T) {
	data := []byte("id,id,id\n1,2,3\n")

	got, err := DecodeTable(data, ',', true)
	if err != nil {
		t.Fatalf("DecodeTable() error = %v", err)
	}

	wantCols := []string{"id", "id_2", "id_3"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", got.Columns, wantCols)
	}
	if got.Rows[0]["id"] != "1" || got.Rows[0]["id_2"] != "2" || got.Rows[0]["id_3"] != "3" {
		t.Errorf("row values merged: %v", got.Rows[0])
	}
}

func TestDecodeTable_Delimiters(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		delimiter rune
	}{
		{"semicolon", "a;b\n1;2\n", ';'},
		{"tab", "a\tb\n1\t2\n", '\t'},
		{"pipe", "a|b\n1|2\n", '|'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTable([]byte(tt.data), tt.delimiter, true)
			if err != nil {
				t.Fatalf("DecodeTable() error = %v", err)
			}
			if len(got.Rows) != 1 || got.Rows[0]["a"] != "1" || got.Rows[0]["b"] != "2" {
				t.Errorf("unexpected decode result: %+v", got)
			}
		})
	}
}

func TestDecodeTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"ragged rows", "a,b\n1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTable([]byte(tt.data), ',', true)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("DecodeTable() error = %v, want DecodeError", err)
			}
		})
	}
}

func TestDecodeTable_HeaderOnly(t *testing.T) {
	got, err := DecodeTable([]byte("name,age\n"), ',', true)
	if err != nil {
		t.Fatalf("DecodeTable() error = %v", err)
	}
	if len(got.Rows) != 0 {
		t.Errorf("len(Rows) = %d, want 0", len(got.Rows))
	}
	if len(got.Columns) != 2 {
		t.Errorf("len(Columns) = %d, want 2", len(got.Columns))
	}
}

func TestEncodeTable_RoundTrip(t *testing.T) {
	original := TableSnapshot{
		Columns: []string{"Column_1", "Column_2"},
		Rows: []Row{
			{"Column_1": "plain", "Column_2": "with,comma"},
			{"Column_1": "line\nbreak", "Column_2": `quoted "text"`},
			{"Column_1": "", "Column_2": "blank left"},
		},
	}

	encoded := EncodeTable(original)
	decoded, err := DecodeTable(encoded, ',', false)
	if err != nil {
		t.Fatalf("DecodeTable() error = %v", err)
	}

	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestEncodeTableWithHeader(t *testing.T) {
	snapshot := TableSnapshot{
		Columns: []string{"name", "age"},
		Rows:    []Row{{"name": "alice", "age": "30"}},
	}

	got := string(EncodeTableWithHeader(snapshot))
	want := "name,age\nalice,30\n"
	if got != want {
		t.Errorf("EncodeTableWithHeader() = %q, want %q", got, want)
	}
}
