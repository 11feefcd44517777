package disasm

import (
	"testing"

	"unsbf/internal/sbf"
)

func TestTextMnemonics(t *testing.T) {
	cases := []struct {
		rev  sbf.Revision
		slot []byte
		want string
	}{
		{sbf.V0, rawSlot(0xb7, 1, 0, 0, -3), "mov64 r1, -3"},
		{sbf.V0, rawSlot(0xbf, 1, 2, 0, 0), "mov64 r1, r2"},
		{sbf.V0, rawSlot(0x04, 3, 0, 0, 10), "add32 r3, 10"},
		{sbf.V0, rawSlot(0x87, 1, 0, 0, 0), "neg64 r1"},
		{sbf.V0, rawSlot(0xd4, 1, 0, 0, 16), "le16 r1"},
		{sbf.V0, rawSlot(0x61, 1, 2, 8, 0), "ldxw r1, [r2+0x8]"},
		{sbf.V0, rawSlot(0x63, 2, 3, -4, 0), "stxw [r2-0x4], r3"},
		{sbf.V0, rawSlot(0x62, 2, 0, 4, 9), "stw [r2+0x4], 9"},
		{sbf.V0, rawSlot(0x05, 0, 0, 3, 0), "ja lbb_4"},
		{sbf.V0, rawSlot(0x15, 1, 0, 5, 7), "jeq r1, 7, lbb_6"},
		{sbf.V0, rawSlot(0x1d, 1, 2, 5, 0), "jeq r1, r2, lbb_6"},
		{sbf.V0, rawSlot(0x85, 0, 0, 0, 8), "call function_9"},
		{sbf.V0, rawSlot(0x95, 0, 0, 0, 0), "exit"},
		{sbf.V2, rawSlot(0xf7, 1, 0, 0, 1), "hor64 r1, 1"},
		{sbf.V2, rawSlot(0x2c, 1, 2, 0, 0), "ldxb r1, [r2+0x0]"},
		{sbf.V2, rawSlot(0x3e, 1, 2, 0, 0), "uhmul64 r1, r2"},
		{sbf.V3, rawSlot(0x95, 0, 0, 0, 1), "syscall 1"},
		{sbf.V3, rawSlot(0x9d, 0, 0, 0, 0), "return"},
	}

	for _, c := range cases {
		insns, err := sbf.Decode(c.slot, c.rev)
		if err != nil {
			t.Fatalf("Decode(%s): %v", c.want, err)
		}
		if got := Text(insns[0], c.rev); got != c.want {
			t.Errorf("Text = %q, want %q", got, c.want)
		}
	}
}

func TestTextLddw(t *testing.T) {
	insns, err := sbf.Decode(rawLddw(5, 0x100000000), sbf.V0)
	if err != nil {
		t.Fatal(err)
	}
	if got := Text(insns[0], sbf.V0); got != "lddw r5, 0x100000000" {
		t.Errorf("Text = %q", got)
	}
}

func TestTextInvalidSlot(t *testing.T) {
	// lddw is gone from v2; the raw slot is printed instead.
	insns, err := sbf.Decode(rawSlot(0x18, 1, 0, 0, 0x10), sbf.V2)
	if err != nil {
		t.Fatal(err)
	}
	if got := Text(insns[0], sbf.V2); got != ".8byte 0x0000001000000118" {
		t.Errorf("Text = %q", got)
	}
}

func TestTextCallx(t *testing.T) {
	v0, err := sbf.Decode(rawSlot(0x8d, 0, 0, 0, 4), sbf.V0)
	if err != nil {
		t.Fatal(err)
	}
	if got := Text(v0[0], sbf.V0); got != "callx r4" {
		t.Errorf("v0 Text = %q", got)
	}

	v2, err := sbf.Decode(rawSlot(0x8d, 0, 3, 0, 0), sbf.V2)
	if err != nil {
		t.Fatal(err)
	}
	if got := Text(v2[0], sbf.V2); got != "callx r3" {
		t.Errorf("v2 Text = %q", got)
	}
}
