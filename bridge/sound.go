package bridge

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/risor-io/tic/host"
)

func soundFunctions() []Function {
	return []Function{
		{
			Name:      "sfx",
			Signature: "sfx(id, [note=-1], [duration=-1], [channel=0], [volume=15], [speed=0])",
			Doc:       "Plays a sound effect. The note is a semitone number or a name like \"C#4\"; volume is one value or [left, right].",
			Arity:     Range(1, 6),
			Call:      Sfx,
		},
		{
			Name:      "music",
			Signature: "music([track=-1], [frame=-1], [row=-1], [loop=true], [sustain=false], [tempo=-1], [speed=-1])",
			Doc:       "Plays a music track; without arguments stops playback.",
			Arity:     Range(0, 7),
			Call:      Music,
		},
	}
}

func Sfx(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("sfx", args)
	s := host.Sfx{Index: r.s32(0)}
	s.Note, s.Octave = r.note(1)
	s.Duration = r.optS32(2, -1)
	s.Channel = r.optS32(3, 0)
	s.Left, s.Right = r.stereo(4, host.MaxVolume)
	s.Speed = r.optS32(5, 0)
	if r.err != nil {
		return r.err
	}
	h.Sfx(s)
	return nothing()
}

func Music(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("music", args)
	m := host.Music{
		Track:   r.optS32(0, -1),
		Frame:   r.optS32(1, -1),
		Row:     r.optS32(2, -1),
		Loop:    r.optBool(3, true),
		Sustain: r.optBool(4, false),
		Tempo:   r.optS32(5, -1),
		Speed:   r.optS32(6, -1),
	}
	if r.err != nil {
		return r.err
	}
	h.Music(m)
	return nothing()
}
