package catalog

import (
	"fmt"
	"math"
)

// Sign is a 30 degree zodiac segment starting at 0 Aries
type Sign uint8

// Signs in zodiacal order
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

// SignOf returns the sign holding a longitude in degrees
func SignOf(lon float64) Sign {
	l := math.Mod(lon, 360)
	if l < 0 {
		l += 360
	}
	s := int(l / 30)
	if s > 11 {
		s = 0
	}
	return Sign(s)
}

// String returns the wire name
func (s Sign) String() string {
	if int(s) >= len(signNames) {
		return fmt.Sprintf("sign(%d)", uint8(s))
	}
	return signNames[s]
}

// ParseSign resolves a wire name
func ParseSign(v string) (Sign, error) {
	key := canon(v)
	for i, n := range signNames {
		if n == key {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sign %q", v)
}

// MarshalText implements encoding.TextMarshaler
func (s Sign) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Sign) UnmarshalText(p []byte) error {
	v, err := ParseSign(string(p))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
