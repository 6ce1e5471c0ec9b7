package statement

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleStatement = "Extrato Conta Corrente\n" +
	"Banco Exemplo S.A.\n" +
	";;;\n" +
	"Data Lançamento;Histórico;Descrição;Valor;Saldo\n" +
	"02/01/2025;;PIX RECEBIDO Empresa X;R$ 1.234,56;10.000,00\n" +
	"03/01/2025;;PIX RECEBIDO João Silva;150,00;10.150,00\n" +
	"bad-date;;algo;10,00;x\n" +
	"04/01/2025;;TARIFA;abc;x\n" +
	"05/01/2025;;PIX RECEBIDO Maria;50,00\n"

func TestParseHappyPath(t *testing.T) {
	result, err := Parse([]byte(sampleStatement))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Lines) != 3 {
		t.Fatalf("parsed %d lines, want 3", len(result.Lines))
	}
	if result.SkippedLines != 2 {
		t.Errorf("skipped %d lines, want 2", result.SkippedLines)
	}

	first := result.Lines[0]
	if !first.Date.Equal(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first line date = %v", first.Date)
	}
	if first.Amount.StringFixed(2) != "1234.56" {
		t.Errorf("first line amount = %s, want 1234.56", first.Amount.StringFixed(2))
	}
	if first.Description != "PIX RECEBIDO Empresa X" {
		t.Errorf("first line description = %q", first.Description)
	}
	if first.DescriptionKey != "pix recebido empresa x" {
		t.Errorf("first line key = %q", first.DescriptionKey)
	}

	// line missing the fifth column still parses: only 4 columns are required
	last := result.Lines[2]
	if last.Amount.StringFixed(2) != "50.00" {
		t.Errorf("last line amount = %s, want 50.00", last.Amount.StringFixed(2))
	}
}

func TestParseMissingHeader(t *testing.T) {
	raw := "Extrato\n01/01/2025;;PIX;100,00;x\n"
	_, err := Parse([]byte(raw))
	if !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("err = %v, want ErrMissingHeader", err)
	}
}

func TestParseNoValidRecords(t *testing.T) {
	raw := "Data;Doc;Descricao;Valor\nbad;;x;also-bad\n;;;\n"
	_, err := Parse([]byte(raw))
	if !errors.Is(err, ErrNoValidRecords) {
		t.Fatalf("err = %v, want ErrNoValidRecords", err)
	}
}

func TestParseHeaderIsDiacriticInsensitive(t *testing.T) {
	raw := "DATA LANÇAMENTO;DOC;HISTÓRICO;VALOR (R$)\n10/02/2025;;PIX Fulano;70,00\n"
	result, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("parsed %d lines, want 1", len(result.Lines))
	}
}

func TestParseUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Data;Doc;Descricao;Valor\n01/02/2025;;PIX Teste;25,50\n")...)
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("parsed %d lines, want 1", len(result.Lines))
	}
}

func TestParseLatin1Fallback(t *testing.T) {
	// "Descrição" and "João" encoded as Latin-1 (0xE7 0xE3 0xE3 are invalid UTF-8 here)
	raw := []byte("Data;Doc;Descri\xe7\xe3o;Valor\n01/02/2025;;PIX Jo\xe3o;99,90\n")
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("parsed %d lines, want 1", len(result.Lines))
	}
	if result.Lines[0].DescriptionKey != "pix joao" {
		t.Errorf("key = %q, want %q", result.Lines[0].DescriptionKey, "pix joao")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.234,56", "1234.56", false},
		{"1234,56", "1234.56", false},
		{"R$ 50,00", "50.00", false},
		{"R$1.000,00", "1000.00", false},
		{"0,005", "0.01", false}, // half-up
		{"-120,50", "-120.50", false},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) returned error: %v", tt.in, err)
			continue
		}
		if got.StringFixed(2) != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got.StringFixed(2), tt.want)
		}
	}
}

func TestParsePreservesFileOrder(t *testing.T) {
	raw := "Data;Doc;Descricao;Valor\n" +
		"03/01/2025;;terceiro;3,00\n" +
		"01/01/2025;;primeiro;1,00\n" +
		"02/01/2025;;segundo;2,00\n"
	result, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	var got []string
	for _, line := range result.Lines {
		got = append(got, line.Description)
	}
	if strings.Join(got, ",") != "terceiro,primeiro,segundo" {
		t.Errorf("lines out of file order: %v", got)
	}
}
