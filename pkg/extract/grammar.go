package extract

import "strings"

type lineKind int

const (
	lineOther lineKind = iota
	lineBlank
	lineMalformed
	lineDevice
	lineMakeup
)

// Markers are the substrings that give a key=value line its meaning.
type Markers struct {
	File   string // file name marker, "КОТ"
	Device string // key marker declaring the current device, "DevID"
	Makeup string // value marker for make-up water, "Подпитка"
	Unit   string // value unit marker, "м3"
}

var DefaultMarkers = Markers{
	File:   "КОТ",
	Device: "DevID",
	Makeup: "Подпитка",
	Unit:   "м3",
}

type line struct {
	kind  lineKind
	key   string
	value string
}

func (m Markers) classify(raw string) line {
	s := strings.TrimSpace(raw)
	if s == "" {
		return line{kind: lineBlank}
	}
	if strings.Count(s, "=") != 1 {
		return line{kind: lineMalformed}
	}
	key, value, _ := strings.Cut(s, "=")
	l := line{key: strings.TrimSpace(key), value: strings.TrimSpace(value)}
	switch {
	case l.key == "":
		l.kind = lineMalformed
	case strings.Contains(l.key, m.Device):
		l.kind = lineDevice
	case strings.Contains(l.value, m.Makeup) && strings.Contains(l.value, m.Unit):
		l.kind = lineMakeup
	default:
		l.kind = lineOther
	}
	return l
}

type parseState int

const (
	awaitingDeviceID parseState = iota
	haveDeviceID
)

// fileParser holds the per-file state. A new one is used for every file.
type fileParser struct {
	file     string
	state    parseState
	deviceID string

	records []recordCandidate
	skipped int
}

type recordCandidate struct {
	deviceID  string
	parameter string
}

func newFileParser(file string) *fileParser {
	return &fileParser{file: file, state: awaitingDeviceID}
}

// step consumes one classified line.
func (p *fileParser) step(l line) {
	switch l.kind {
	case lineMalformed:
		p.skipped++
	case lineDevice:
		if l.value == "" {
			p.state = awaitingDeviceID
			p.deviceID = ""
			return
		}
		p.state = haveDeviceID
		p.deviceID = l.value
	case lineMakeup:
		if p.state != haveDeviceID {
			p.skipped++
			return
		}
		p.records = append(p.records, recordCandidate{deviceID: p.deviceID, parameter: l.key})
	}
}
