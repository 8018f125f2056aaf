package plugin_test

import (
	"testing"

	Zp "github.com/maroda/zonetone/plugin"
)

func TestMPEKeyboard_Handshake(t *testing.T) {
	cs := &captureSender{}
	Zp.NewMPEKeyboard(cs.send)

	// RPN 6 announcement plus pitch-bend range for the master
	// and all fourteen member channels, three CCs apiece
	want := 3 + 3*15
	if len(cs.msgs) != want {
		t.Fatalf("handshake sent %d messages, want %d", len(cs.msgs), want)
	}

	var ch, cc, val uint8
	if !cs.msgs[0].GetControlChange(&ch, &cc, &val) {
		t.Fatalf("first message %v is not a control change", cs.msgs[0])
	}
	if ch != 0 {
		t.Errorf("handshake starts on channel %d, want master 0", ch)
	}
}

func TestMPEKeyboard_Notes(t *testing.T) {
	t.Run("Presses rotate through the member channels", func(t *testing.T) {
		cs := &captureSender{}
		kb := Zp.NewMPEKeyboard(cs.send)
		cs.msgs = nil

		kb.HandleKeyPress(60, 100, 0)
		kb.HandleKeyPress(64, 100, 0)
		kb.HandleKeyPress(67, 100, 0)

		for i, wantCh := range []uint8{1, 2, 3} {
			var ch, key, vel uint8
			if !cs.msgs[i].GetNoteOn(&ch, &key, &vel) {
				t.Fatalf("message %d (%v) is not a note-on", i, cs.msgs[i])
			}
			if ch != wantCh {
				t.Errorf("press %d landed on channel %d, want %d", i, ch, wantCh)
			}
		}
	})

	t.Run("Press with pressure adds an aftertouch", func(t *testing.T) {
		cs := &captureSender{}
		kb := Zp.NewMPEKeyboard(cs.send)
		cs.msgs = nil

		kb.HandleKeyPress(60, 100, 64)

		if len(cs.msgs) != 2 {
			t.Fatalf("sent %d messages, want note-on plus aftertouch", len(cs.msgs))
		}
		var ch, pressure uint8
		if !cs.msgs[1].GetAfterTouch(&ch, &pressure) {
			t.Fatalf("second message %v is not channel aftertouch", cs.msgs[1])
		}
		if pressure != 64 {
			t.Errorf("pressure = %d, want 64", pressure)
		}
	})

	t.Run("Release frees the channel as a zero velocity note-on", func(t *testing.T) {
		cs := &captureSender{}
		kb := Zp.NewMPEKeyboard(cs.send)
		kb.HandleKeyPress(60, 100, 0)
		cs.msgs = nil

		kb.HandleKeyRelease(60, 0)

		var ch, key, vel uint8
		if !cs.msgs[0].GetNoteOn(&ch, &key, &vel) {
			t.Fatalf("release %v is not a note-on", cs.msgs[0])
		}
		if ch != 1 || key != 60 || vel != 0 {
			t.Errorf("release = ch %d key %d vel %d, want ch 1 key 60 vel 0", ch, key, vel)
		}
		if _, ok := kb.ActiveNoteChannel(60); ok {
			t.Error("note 60 still holds a channel after release")
		}
	})

	t.Run("Pressure change rides the assigned channel", func(t *testing.T) {
		cs := &captureSender{}
		kb := Zp.NewMPEKeyboard(cs.send)
		kb.HandleKeyPress(60, 100, 0)
		kb.HandleKeyPress(64, 100, 0)
		cs.msgs = nil

		kb.HandleKeyPressureChange(64, 90)

		var ch, pressure uint8
		if !cs.msgs[0].GetAfterTouch(&ch, &pressure) {
			t.Fatalf("message %v is not channel aftertouch", cs.msgs[0])
		}
		if ch != 2 {
			t.Errorf("aftertouch on channel %d, want note 64's channel 2", ch)
		}
	})

	t.Run("Unknown notes are no-ops", func(t *testing.T) {
		cs := &captureSender{}
		kb := Zp.NewMPEKeyboard(cs.send)
		cs.msgs = nil

		kb.HandleKeyRelease(99, 0)
		kb.HandleKeyPressureChange(99, 50)

		if len(cs.msgs) != 0 {
			t.Errorf("sent %d messages, want none for a note never pressed", len(cs.msgs))
		}
	})

	t.Run("Cursor keeps rotating past freed channels", func(t *testing.T) {
		cs := &captureSender{}
		kb := Zp.NewMPEKeyboard(cs.send)
		kb.HandleKeyPress(60, 100, 0)
		kb.HandleKeyRelease(60, 0)
		cs.msgs = nil

		kb.HandleKeyPress(61, 100, 0)

		ch, ok := kb.ActiveNoteChannel(61)
		if !ok {
			t.Fatal("note 61 has no channel")
		}
		if ch != 2 {
			t.Errorf("note 61 on channel %d, want the rotation to continue at 2", ch)
		}
	})
}
