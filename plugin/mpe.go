package plugin

import (
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
)

// MIDI control change numbers for the RPN handshake
const (
	ccDataEntryMSB = 0x06
	ccRPNLSB       = 0x64
	ccRPNMSB       = 0x65
)

// mpeZone is one MPE zone: a master channel plus the member channels
// that per-note messages rotate through.
type mpeZone struct {
	masterChannel  uint8
	memberChannels []uint8
	active         bool
}

// MPEKeyboard allocates one MIDI channel per active note, round-robin
// over the lower zone's member channels. It is independent of the main
// pipeline but shares its send path. Operations on a note it does not
// know about are no-ops, stray releases from a protocol partner are
// expected.
type MPEKeyboard struct {
	Send SendFunc

	lowerZone    mpeZone
	upperZone    mpeZone
	activeNotes  map[uint8]uint8 // note number -> channel
	channelNotes map[uint8]uint8 // channel -> note number
	nextChannel  int

	masterPitchBendRange uint8
	notePitchBendRange   uint8
}

// NewMPEKeyboard sets up a lower-zone MPE configuration with fourteen
// member channels and broadcasts the zone handshake.
func NewMPEKeyboard(send SendFunc) *MPEKeyboard {
	members := make([]uint8, 0, 14)
	for ch := uint8(1); ch <= 14; ch++ {
		members = append(members, ch)
	}

	kb := &MPEKeyboard{
		Send: send,
		lowerZone: mpeZone{
			masterChannel:  0,
			memberChannels: members,
			active:         true,
		},
		upperZone:            mpeZone{masterChannel: 15},
		activeNotes:          make(map[uint8]uint8),
		channelNotes:         make(map[uint8]uint8),
		masterPitchBendRange: 2,
		notePitchBendRange:   48,
	}

	kb.sendZoneConfiguration()
	return kb
}

// sendZoneConfiguration broadcasts the MPE handshake: RPN 6 with the
// member-channel count, then the pitch-bend ranges for the master and
// every member channel.
func (kb *MPEKeyboard) sendZoneConfiguration() {
	master := kb.lowerZone.masterChannel
	kb.send(midi.ControlChange(master, ccRPNLSB, 0x06))
	kb.send(midi.ControlChange(master, ccRPNMSB, 0x00))
	kb.send(midi.ControlChange(master, ccDataEntryMSB, uint8(len(kb.lowerZone.memberChannels))))

	kb.sendPitchBendRange(master, kb.masterPitchBendRange)
	for _, ch := range kb.lowerZone.memberChannels {
		kb.sendPitchBendRange(ch, kb.notePitchBendRange)
	}
}

func (kb *MPEKeyboard) sendPitchBendRange(channel, semitones uint8) {
	kb.send(midi.ControlChange(channel, ccRPNLSB, 0x00))
	kb.send(midi.ControlChange(channel, ccRPNMSB, 0x00))
	kb.send(midi.ControlChange(channel, ccDataEntryMSB, semitones))
}

// send logs and drops a failed message, the allocator state machine
// never stalls on the wire.
func (kb *MPEKeyboard) send(msg midi.Message) {
	if err := kb.Send(msg); err != nil {
		slog.Error("MPE send failed", slog.Any("Error", err))
	}
}

// nextMemberChannel rotates the cursor over the member pool.
func (kb *MPEKeyboard) nextMemberChannel() uint8 {
	members := kb.lowerZone.memberChannels
	ch := members[kb.nextChannel]
	kb.nextChannel = (kb.nextChannel + 1) % len(members)
	return ch
}

// HandleKeyPress assigns the next member channel to the note, sends
// note-on, and an initial aftertouch when the press carries pressure.
func (kb *MPEKeyboard) HandleKeyPress(note, velocity, initialPressure uint8) {
	channel := kb.nextMemberChannel()
	kb.activeNotes[note] = channel
	kb.channelNotes[channel] = note

	kb.send(midi.NoteOn(channel, note, velocity))

	if initialPressure > 0 {
		kb.send(midi.AfterTouch(channel, initialPressure))
	}
}

// HandleKeyRelease frees the note's channel. The release goes out as a
// note-on with velocity zero, the accepted MPE idiom for note-off.
func (kb *MPEKeyboard) HandleKeyRelease(note, releaseVelocity uint8) {
	channel, ok := kb.activeNotes[note]
	if !ok {
		return
	}

	kb.send(midi.NoteOn(channel, note, 0))
	delete(kb.activeNotes, note)
	delete(kb.channelNotes, channel)
}

// HandleKeyPressureChange updates aftertouch on the note's assigned
// channel, or does nothing for an unknown note.
func (kb *MPEKeyboard) HandleKeyPressureChange(note, pressure uint8) {
	channel, ok := kb.activeNotes[note]
	if !ok {
		return
	}
	kb.send(midi.AfterTouch(channel, pressure))
}

// ActiveNoteChannel reports the channel currently assigned to a note.
func (kb *MPEKeyboard) ActiveNoteChannel(note uint8) (uint8, bool) {
	ch, ok := kb.activeNotes[note]
	return ch, ok
}
