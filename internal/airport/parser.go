package airport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/apscan/internal/model"
)

const (
	// minLineLength is the shortest line that can hold a station.
	minLineLength = 40

	// ssidWidth is the width of the right-aligned SSID column.
	ssidWidth = 32

	// fieldCount is the number of whitespace-separated columns after the SSID.
	fieldCount = 6

	// headerToken appears in the BSSID column of the header line.
	headerToken = "BSSID"
)

// Line is a successfully parsed data line.
type Line struct {
	BSSID  string
	Record model.StationRecord
}

// ParseLine parses one line of scan output.
//
// It returns ErrShortLine or ErrHeaderLine for lines that carry no station,
// and an error wrapping ErrMalformedLine for lines that should have carried
// one but could not be read.
//
// The security column may hold several descriptors, for example
// "WPA(PSK/TKIP/TKIP) WPA2(PSK/AES/AES)". Security keeps all of them joined
// by single spaces rather than only the first, so mixed-mode networks are
// not reported as WPA only.
func ParseLine(line string) (Line, error) {
	line = strings.TrimRight(line, "\r\n")
	runes := []rune(line)
	if len(runes) < minLineLength {
		return Line{}, ErrShortLine
	}

	ssid := norm.NFC.String(strings.TrimSpace(string(runes[:ssidWidth])))
	fields := strings.Fields(string(runes[ssidWidth:]))

	if len(fields) > 0 && fields[0] == headerToken {
		return Line{}, ErrHeaderLine
	}
	if len(fields) < fieldCount {
		return Line{}, fmt.Errorf("%w: expected %d fields after SSID, got %d",
			ErrMalformedLine, fieldCount, len(fields))
	}

	bssid, err := model.CanonicalBSSID(fields[0])
	if err != nil {
		return Line{}, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}

	rssi, err := strconv.Atoi(fields[1])
	if err != nil {
		return Line{}, fmt.Errorf("%w: RSSI %q is not a number", ErrMalformedLine, fields[1])
	}

	channel, err := parseChannel(fields[2])
	if err != nil {
		return Line{}, err
	}

	return Line{
		BSSID: bssid,
		Record: model.StationRecord{
			SSID:     ssid,
			Channel:  channel,
			RSSI:     rssi,
			HT:       fields[3],
			CC:       fields[4],
			Security: strings.Join(fields[5:], " "),
		},
	}, nil
}

// parseChannel reads the channel column. Wide channels are printed with an
// offset suffix such as "36,+1" or "149,80"; only the primary is kept.
func parseChannel(s string) (int, error) {
	primary, _, _ := strings.Cut(s, ",")
	channel, err := strconv.Atoi(primary)
	if err != nil {
		return 0, fmt.Errorf("%w: channel %q is not a number", ErrMalformedLine, s)
	}
	return channel, nil
}

// Parse parses the full output of one scan. Stations are keyed by canonical
// BSSID; a BSSID seen twice keeps the later line.
//
// Malformed lines are skipped and returned in skipped, each error naming
// the 1-based line number.
func Parse(lines []string) (result model.ScanResult, skipped []error) {
	result = make(model.ScanResult)
	for i, line := range lines {
		parsed, err := ParseLine(line)
		switch {
		case err == nil:
			result[parsed.BSSID] = parsed.Record
		case errors.Is(err, ErrShortLine), errors.Is(err, ErrHeaderLine):
			continue
		default:
			skipped = append(skipped, fmt.Errorf("line %d: %w", i+1, err))
		}
	}
	return result, skipped
}
