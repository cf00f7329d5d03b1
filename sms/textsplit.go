// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

// TextSplitter divides outgoing text into character-safe chunks, one per
// SMS part. FromProperties uses this to decide whether to build a
// singlepart or multipart outgoing message.
type TextSplitter interface {
	// Split returns one chunk for a short message, or N chunks for a long
	// one. The encoding name reflects the character set the splitter
	// chose (e.g. "gsm7", "ucs2"). Each chunk is a literal substring of
	// text; PDU-level alphabet encoding is the codec's job, not the
	// splitter's, so a chunk always round-trips back to the text it came
	// from.
	Split(text string) (chunks []string, encoding string)
}

// smsTextSplitter is the default TextSplitter. It chunks on rune
// boundaries sized to the per-segment user-data limits of the character
// set in play (3GPP TS 23.038), leaving the actual alphabet packing to
// the PDUCodec.
type smsTextSplitter struct{}

// DefaultTextSplitter is the TextSplitter used when none is supplied
// explicitly.
var DefaultTextSplitter TextSplitter = smsTextSplitter{}

// Single-part and per-segment (concatenated) character limits. A
// concatenated message's segments are smaller because each carries a
// 6-octet concatenation UDH, which eats into the GSM7 septet budget and
// the UCS-2 octet budget.
const (
	gsm7SingleLimit = 160
	gsm7ConcatLimit = 153
	ucs2SingleLimit = 70
	ucs2ConcatLimit = 67
)

func (smsTextSplitter) Split(text string) ([]string, string) {
	encoding := encodingOf(text)
	singleLimit, concatLimit := gsm7SingleLimit, gsm7ConcatLimit
	if encoding == "ucs2" {
		singleLimit, concatLimit = ucs2SingleLimit, ucs2ConcatLimit
	}

	runes := []rune(text)
	if len(runes) <= singleLimit {
		return []string{text}, encoding
	}

	var chunks []string
	for len(runes) > 0 {
		n := concatLimit
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks, encoding
}

// encodingOf reports the character set a text requires: the default GSM
// 7-bit alphabet covers plain ASCII, anything else needs UCS-2.
func encodingOf(text string) string {
	for _, r := range text {
		if r > 0x7f {
			return "ucs2"
		}
	}
	return "gsm7"
}
