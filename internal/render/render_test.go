package render

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"unsbf/internal/disasm"
	"unsbf/internal/sbf"
)

func slot(op byte, dst, src uint8, off int16, imm int32) []byte {
	b := make([]byte, sbf.InsnSize)
	b[0] = op
	b[1] = src<<4 | dst&0x0f
	binary.LittleEndian.PutUint16(b[2:], uint16(off))
	binary.LittleEndian.PutUint32(b[4:], uint32(imm))
	return b
}

func decode(t *testing.T, slots ...[]byte) []sbf.Instruction {
	t.Helper()
	var text []byte
	for _, s := range slots {
		text = append(text, s...)
	}
	insns, err := sbf.Decode(text, sbf.V0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return insns
}

func TestWriteListing(t *testing.T) {
	insns := decode(t,
		slot(0x15, 1, 0, 1, 0), // jeq r1, 0, lbb_2
		slot(0xb7, 2, 0, 0, 1),
		slot(0x95, 0, 0, 0, 0),
	)
	g := disasm.BuildGraph(insns, 0, true)

	var buf bytes.Buffer
	if err := WriteListing(&buf, g, insns, sbf.V0, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"entrypoint:\n",
		"lbb_1:\n",
		"lbb_2:\n",
		"    jeq r1, 0, lbb_2",
		"r2 = 1 as i32 as i64 as u64", // pseudo column
		"    exit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}

	// Pseudo column starts at column 40 plus eight spaces.
	aligned := "    mov64 r2, 1" + strings.Repeat(" ", 29) + "        r2 = 1"
	if !strings.Contains(out, aligned) {
		t.Errorf("pseudo column not aligned:\n%s", out)
	}
}

func TestWriteListingAnnotationTruncated(t *testing.T) {
	insns := decode(t, slot(0x95, 0, 0, 0, 0))
	g := disasm.BuildGraph(insns, 0, true)

	ann := map[uint64]string{0: disasm.FormatBytes(bytes.Repeat([]byte{'A'}, 200))}
	var buf bytes.Buffer
	if err := WriteListing(&buf, g, insns, sbf.V0, ann); err != nil {
		t.Fatal(err)
	}
	line := strings.TrimRight(strings.Split(buf.String(), "\n")[1], " ")
	if !strings.HasSuffix(line, "…") {
		t.Errorf("line not truncated: %q", line)
	}
	if n := len([]rune(strings.TrimPrefix(line, "    "))); n != 2*disasm.DefaultStringLen+1 {
		t.Errorf("truncated length = %d runes", n)
	}
}

func TestWriteImmediateTable(t *testing.T) {
	text := slot(0x95, 0, 0, 0, 0)
	image := append(append([]byte(nil), text...), []byte("hello")...)
	prog := &sbf.Program{
		Bytes:       image,
		TextStart:   0,
		TextEnd:     uint64(len(text)),
		RodataStart: uint64(len(text)),
		RodataEnd:   uint64(len(image)),
	}

	base := uint64(sbf.MMRodataStart)
	ranges := []disasm.ImmediateRange{
		{Start: base + 8, End: base + 13},
		{Start: base + 13, End: base + 13},   // degenerate, skipped
		{Start: base + 4096, End: base + 5000}, // outside the image, skipped
	}

	var buf bytes.Buffer
	if err := WriteImmediateTable(&buf, prog, ranges); err != nil {
		t.Fatal(err)
	}
	want := "0x100000008 (+ 0x8): b\"hello\"\n"
	if buf.String() != want {
		t.Errorf("table = %q, want %q", buf.String(), want)
	}
}

func TestWriteDOT(t *testing.T) {
	insns := decode(t,
		slot(0x15, 1, 0, 1, 0), // jeq r1, 0, lbb_2
		slot(0xb7, 2, 0, 0, 1),
		slot(0x95, 0, 0, 0, 0),
	)
	g := disasm.BuildGraph(insns, 0, true)

	var buf bytes.Buffer
	if err := WriteDOT(&buf, g, insns, sbf.V0, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"digraph {",
		"rankdir=LR;",
		"subgraph cluster_0 {",
		`label="entrypoint";`,
		"tooltip=lbb_0;",
		`lbb_0 [label=<<table border="0" cellborder="0" cellpadding="3">`,
		`<tr><td align="left">jeq</td><td align="left">r1, 0, lbb_2</td></tr>`,
		"lbb_0 -> {lbb_1 lbb_2};",
		"lbb_1 -> lbb_0 [style=dotted; arrowhead=none];",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dot missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDOTEscapes(t *testing.T) {
	insns := decode(t, slot(0x95, 0, 0, 0, 0))
	g := disasm.BuildGraph(insns, 0, true)

	ann := map[uint64]string{0: `b"<&>"`}
	var buf bytes.Buffer
	if err := WriteDOT(&buf, g, insns, sbf.V0, ann); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "&lt;&amp;&gt;") {
		t.Errorf("HTML not escaped:\n%s", buf.String())
	}
}
