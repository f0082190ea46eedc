// Package astro holds the angle conversions used when storing and
// displaying sky positions. Positions are stored in radians; the HTTP
// surface speaks degrees.
package astro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	secondsInMinute = 60
	secondsInHour   = 60 * 60
	secondsInDay    = 24 * secondsInHour
	radiansInCircle = 2 * math.Pi

	arcsecInArcmin = 60
	arcsecInDegree = 60 * 60
)

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// RadiansToHMS splits an angle into hours, minutes and seconds of time.
// The angle is wrapped into [0, 2π) first.
func RadiansToHMS(rad float64) (h, m int, s float64) {
	rad = math.Mod(rad, radiansInCircle)
	if rad < 0 {
		rad += radiansInCircle
	}
	seconds := roundMicro(secondsInDay * rad / radiansInCircle)
	if seconds >= secondsInDay {
		seconds -= secondsInDay
	}
	h = int(seconds / secondsInHour)
	seconds -= float64(h * secondsInHour)
	m = int(seconds / secondsInMinute)
	s = seconds - float64(m*secondsInMinute)
	return h, m, s
}

// RadiansToDMS splits an angle into a sign ("+" or "-"), degrees,
// arcminutes and arcseconds.
func RadiansToDMS(rad float64) (sign string, d, m int, s float64) {
	sign = "+"
	if rad < 0 {
		sign = "-"
	}
	seconds := roundMicro(Degrees(math.Abs(rad)) * arcsecInDegree)
	d = int(seconds / arcsecInDegree)
	seconds -= float64(d * arcsecInDegree)
	m = int(seconds / arcsecInArcmin)
	s = seconds - float64(m*arcsecInArcmin)
	return sign, d, m, s
}

// roundMicro drops float noise below a microsecond so that exact inputs
// do not render as 59.9999 seconds.
func roundMicro(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// HMSToRadians is the inverse of RadiansToHMS.
func HMSToRadians(h, m, s float64) float64 {
	seconds := secondsInHour*h + secondsInMinute*m + s
	return radiansInCircle * seconds / secondsInDay
}

// DMSToRadians is the inverse of RadiansToDMS. negative carries the sign
// separately so that "-00 30 00" survives.
func DMSToRadians(negative bool, d, m, s float64) float64 {
	seconds := arcsecInDegree*math.Abs(d) + arcsecInArcmin*m + s
	rad := Radians(seconds / arcsecInDegree)
	if negative {
		return -rad
	}
	return rad
}

// FormatHMS renders a right ascension, e.g. "0h 42m 44.3s".
func FormatHMS(rad float64) string {
	h, m, s := RadiansToHMS(rad)
	return fmt.Sprintf("%dh %dm %.1fs", h, m, s)
}

// FormatDMS renders a declination, e.g. "+41° 16′ 9.0″".
func FormatDMS(rad float64) string {
	sign, d, m, s := RadiansToDMS(rad)
	return fmt.Sprintf("%s%d° %d′ %.1f″", sign, d, m, s)
}

// AngularDistance returns the great-circle separation of two positions.
// All values are in radians.
func AngularDistance(ra1, dec1, ra2, dec2 float64) float64 {
	c := math.Sin(dec1)*math.Sin(dec2) + math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// ParseRA parses a right ascension given as decimal degrees ("10.684")
// or as sexagesimal hours ("00:42:44.3"). The result is in radians and
// lies in [0, 2π).
func ParseRA(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if !strings.Contains(v, ":") {
		deg, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("parse ra %q: %w", v, err)
		}
		if !(deg >= 0 && deg < 360) {
			return 0, fmt.Errorf("parse ra %q: must be in [0, 360) degrees", v)
		}
		return Radians(deg), nil
	}
	if strings.HasPrefix(v, "-") {
		return 0, fmt.Errorf("parse ra %q: must not be negative", v)
	}
	_, parts, err := splitSexagesimal(v, ":")
	if err != nil {
		return 0, fmt.Errorf("parse ra %q: %w", v, err)
	}
	if parts[0] >= 24 {
		return 0, fmt.Errorf("parse ra %q: hours must be below 24", v)
	}
	return HMSToRadians(parts[0], parts[1], parts[2]), nil
}

// ParseDec parses a declination given as decimal degrees ("41.27") or as
// sexagesimal degrees separated by colons or dots ("+41:16:09",
// "+41.16.09"). The result is in radians.
func ParseDec(v string) (float64, error) {
	v = strings.TrimSpace(v)
	sep := ""
	switch {
	case strings.Contains(v, ":"):
		sep = ":"
	case strings.Count(v, ".") >= 2:
		sep = "."
	}
	if sep == "" {
		deg, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("parse dec %q: %w", v, err)
		}
		if !(deg >= -90 && deg <= 90) {
			return 0, fmt.Errorf("parse dec %q: must be in [-90, 90] degrees", v)
		}
		return Radians(deg), nil
	}
	negative, parts, err := splitSexagesimal(v, sep)
	if err != nil {
		return 0, fmt.Errorf("parse dec %q: %w", v, err)
	}
	if arcsecInDegree*parts[0]+arcsecInArcmin*parts[1]+parts[2] > 90*arcsecInDegree {
		return 0, fmt.Errorf("parse dec %q: must be in [-90, 90] degrees", v)
	}
	return DMSToRadians(negative, parts[0], parts[1], parts[2]), nil
}

// splitSexagesimal splits "±a<sep>b<sep>c". With sep "." the third field
// may carry its own decimal part ("41.16.09.5").
func splitSexagesimal(v, sep string) (bool, [3]float64, error) {
	var out [3]float64
	negative := strings.HasPrefix(v, "-")
	v = strings.TrimLeft(v, "+-")

	fields := strings.SplitN(v, sep, 3)
	if len(fields) != 3 {
		return false, out, fmt.Errorf("expected three components")
	}
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return false, out, err
		}
		if n < 0 {
			return false, out, fmt.Errorf("negative component %q", f)
		}
		out[i] = n
	}
	if out[1] >= 60 || out[2] >= 60 {
		return false, out, fmt.Errorf("minutes and seconds must be below 60")
	}
	return negative, out, nil
}
