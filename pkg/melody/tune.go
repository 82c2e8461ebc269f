package melody

// Default is the tune the button plays. It is fixed for the lifetime of the
// device.
var Default = Melody{
	S(C5, Quarter), S(Eb5, Quarter), S(F5, DottedEighth), S(Eb5, DottedEighth), S(F5, Eighth),
	S(F5, Quarter), S(Bb5, Eighth), S(Ab5, Eighth), S(G5, Sixteenth), S(F5, Eighth), S(G5, DottedEighth), S(Rest, Eighth),
	S(G5, Quarter), S(Bb5, Quarter), S(C6, DottedEighth), S(F5, DottedEighth), S(Eb5, Eighth),
	S(Bb5, Quarter), S(G5, Eighth), S(Bb5, Eighth), S(Bb5, DottedEighth), S(C6, Quarter),
}

// DefaultTempo is the tempo Default is played at.
var DefaultTempo = Tempo{BPM: DefaultBPM}
