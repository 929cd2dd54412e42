package wlproto

import "testing"

func TestEncodeDecodeString(t *testing.T) {
	e := &encoder{}
	e.putString("wl_compositor")
	d := newDecoder(e.buf, nil)
	got, err := d.string()
	if err != nil {
		t.Fatal(err)
	}
	if got != "wl_compositor" {
		t.Fatalf("got %q", got)
	}
	if d.off%4 != 0 {
		t.Fatalf("decoder offset %d not 4-byte aligned", d.off)
	}
}

func TestEncodeDecodeFixed(t *testing.T) {
	e := &encoder{}
	e.putFixed(12.5)
	d := newDecoder(e.buf, nil)
	got, err := d.fixed()
	if err != nil {
		t.Fatal(err)
	}
	if got != 12.5 {
		t.Fatalf("got %v, want 12.5", got)
	}
}

func TestEncodeDecodeMixedMessage(t *testing.T) {
	e := &encoder{}
	e.putUint32(42)
	e.putInt32(-7)
	e.putString("zwlr_layer_shell_v1")
	e.putUint32(4)

	d := newDecoder(e.buf, nil)
	name, err := d.uint32()
	if err != nil || name != 42 {
		t.Fatalf("name = %d, err = %v", name, err)
	}
	version, err := d.int32()
	if err != nil || version != -7 {
		t.Fatalf("version = %d, err = %v", version, err)
	}
	iface, err := d.string()
	if err != nil || iface != "zwlr_layer_shell_v1" {
		t.Fatalf("iface = %q, err = %v", iface, err)
	}
	trailing, err := d.uint32()
	if err != nil || trailing != 4 {
		t.Fatalf("trailing = %d, err = %v", trailing, err)
	}
}

func TestEncodeArrayRoundTrip(t *testing.T) {
	e := &encoder{}
	e.putArray([]byte{1, 2, 3})
	d := newDecoder(e.buf, nil)
	got, err := d.array()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
}
