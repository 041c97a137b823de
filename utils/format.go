package utils

import (
	"fmt"
	"html"
	"html/template"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/go-bitfield"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ethpandaops/slotscope/types"
)

func FormatFloat(num float64, precision int) string {
	p := message.NewPrinter(language.English)
	f := fmt.Sprintf("%%.%vf", precision)
	s := strings.TrimRight(strings.TrimRight(p.Sprintf(f, num), "0"), ".")
	return s
}

// FormatNumber returns n with english thousands separators ("1,234,567")
func FormatNumber(n uint64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", n)
}

func FormatAddCommas(n uint64) template.HTML {
	number := FormatNumber(n)
	number = strings.ReplaceAll(number, ",", `<span class="thousands-separator"></span>`)
	return template.HTML(number)
}

func FormatETHFromGwei(gwei uint64) string {
	return FormatFloat(float64(gwei)/1e9, 4) + " ETH"
}

func FormatBaseFee(weiValue uint64) template.HTML {
	gweiValue := float64(weiValue) / 1e9

	if weiValue < 100000 {
		return template.HTML(string(FormatAddCommas(weiValue)) + " wei")
	}

	if gweiValue < 100000 {
		formatted := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", gweiValue), "0"), ".")
		return template.HTML(formatted + " gwei")
	}

	ethValue := gweiValue / 1e9
	formatted := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", ethValue), "0"), ".")
	return template.HTML(formatted + " ETH")
}

// FormatAmount formats a wei amount in the given unit ("ETH" or "GWei")
func FormatAmount(amount *big.Int, unit string, digits int) template.HTML {
	var unitDigits int
	switch unit {
	case "ETH", "Ether":
		unitDigits = 18
	case "GWei":
		unitDigits = 9
	default:
		unit = "?"
	}

	trimmedAmount, fullAmount := trimAmount(amount, unitDigits, digits)
	return template.HTML(fmt.Sprintf(`<span data-bs-toggle="tooltip" data-bs-placement="top" title="%s">%s %s</span>`, fullAmount, trimmedAmount, unit))
}

func trimAmount(amount *big.Int, unitDigits int, digits int) (trimmedAmount, fullAmount string) {
	trimmedAmount = "0"
	postComma := ""
	sign := ""

	if amount == nil {
		return trimmedAmount, trimmedAmount
	}

	s := amount.String()
	if amount.Sign() < 0 {
		sign = "-"
		s = strings.TrimPrefix(s, "-")
	}
	l := len(s)

	if l > unitDigits {
		l -= unitDigits
		trimmedAmount = s[:l]
		postComma = strings.TrimRight(s[l:], "0")
	} else if l != 0 {
		postComma = strings.TrimRight(strings.Repeat("0", unitDigits-l)+s, "0")
	}

	fullAmount = trimmedAmount
	if len(postComma) > 0 {
		fullAmount += "." + postComma
	}

	if len(postComma) > digits {
		postComma = postComma[:digits]
	}
	if len(postComma) > 0 {
		trimmedAmount += "." + postComma
	}
	return sign + trimmedAmount, sign + fullAmount
}

// FormatHexBytes formats a byte slice as a 0x-prefixed hex string
func FormatHexBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return fmt.Sprintf("0x%x", data)
}

// FormatHashShort formats a hash in short form (0x1234…abcd)
func FormatHashShort(hash []byte) template.HTML {
	if len(hash) == 0 {
		return template.HTML("")
	}

	fullHash := fmt.Sprintf("0x%x", hash)
	if len(hash) <= 12 {
		return template.HTML(template.HTMLEscapeString(fullHash))
	}
	return template.HTML(fmt.Sprintf(`<span data-bs-toggle="tooltip" data-bs-placement="top" title="%s">%s…%s</span>`, fullHash, fullHash[:14], fullHash[len(fullHash)-12:]))
}

// FormatEthAddressLink links an execution layer address to its address page
func FormatEthAddressLink(address []byte) template.HTML {
	if len(address) == 0 {
		return template.HTML("")
	}
	fullAddr := common.BytesToAddress(address).Hex()
	return template.HTML(fmt.Sprintf(`<a href="/address/%s" class="text-monospace">%s</a>`, fullAddr, fullAddr))
}

func FormatEthBlockLink(blockNum uint64) template.HTML {
	return template.HTML(fmt.Sprintf(`<a href="/block/%d">%v</a>`, blockNum, FormatAddCommas(blockNum)))
}

func FormatSlotLink(slot uint64) template.HTML {
	return template.HTML(fmt.Sprintf(`<a href="/slot/%d"><i class="fas fa-square mr-1"></i>%v</a>`, slot, FormatAddCommas(slot)))
}

func FormatEpochLink(epoch uint64) template.HTML {
	return template.HTML(fmt.Sprintf(`<a href="/epoch/%d">%v</a>`, epoch, FormatAddCommas(epoch)))
}

func FormatValidator(index uint64, name string) template.HTML {
	if name != "" {
		return template.HTML(fmt.Sprintf("<span class=\"validator-label validator-name\" data-bs-toggle=\"tooltip\" data-bs-placement=\"top\" data-bs-title=\"%v\"><i class=\"fas fa-male mr-2\"></i> <a href=\"/validator/%v\">%v</a></span>", index, index, html.EscapeString(name)))
	}
	return template.HTML(fmt.Sprintf("<span class=\"validator-label validator-index\"><i class=\"fas fa-male mr-2\"></i> <a href=\"/validator/%v\">%v</a></span>", index, index))
}

// FormatBitlist renders a ssz bitlist (with length bit) as rows of 0/1, annotated with validators if known
func FormatBitlist(b []byte, v []types.NamedValidator) template.HTML {
	if len(b) == 0 {
		return template.HTML("")
	}
	p := bitfield.Bitlist(b)
	return formatBits(p.BytesNoTrim(), int(p.Len()), v)
}

// FormatBitvector renders a fixed size bitvector as rows of 0/1
func FormatBitvector(b []byte) template.HTML {
	return formatBits(b, len(b)*8, nil)
}

func formatBits(b []byte, length int, v []types.NamedValidator) template.HTML {
	var buf strings.Builder
	buf.WriteString("<div class=\"text-bitfield text-monospace\">")
	perLine := 8
	for y := 0; y < len(b); y += perLine {
		start, end := y*8, (y+perLine)*8
		if end >= length {
			end = length
		}
		for x := start; x < end; x++ {
			if x%8 == 0 {
				if x != 0 {
					buf.WriteString("</span> ")
				}
				buf.WriteString("<span>")
			}
			if v != nil && x < len(v) {
				buf.WriteString(fmt.Sprintf(`<span data-bs-toggle="tooltip" data-bs-placement="top" title="%v">`, v[x].Index))
			}
			if BitAtVector(b, x) {
				buf.WriteString("1")
			} else {
				buf.WriteString("0")
			}
			if v != nil && x < len(v) {
				buf.WriteString("</span>")
			}
		}
		buf.WriteString("</span><br/>")
	}
	buf.WriteString("</div>")
	return template.HTML(buf.String())
}

func FormatParticipation(v float64) template.HTML {
	return template.HTML(fmt.Sprintf("<span>%.2f %%</span>", v*100.0))
}

func FormatRecentTimeShort(ts time.Time) template.HTML {
	duration := time.Until(ts)
	var timeStr string
	absDuraction := duration.Abs()
	if absDuraction < 1*time.Second {
		return template.HTML("now")
	} else if absDuraction < 60*time.Second {
		timeStr = fmt.Sprintf("%v sec.", uint(absDuraction.Seconds()))
	} else if absDuraction < 60*time.Minute {
		timeStr = fmt.Sprintf("%v min.", uint(absDuraction.Minutes()))
	} else if absDuraction < 24*time.Hour {
		timeStr = fmt.Sprintf("%v hr.", uint(absDuraction.Hours()))
	} else {
		timeStr = fmt.Sprintf("%v day.", uint(absDuraction.Hours()/24))
	}
	if duration < 0 {
		return template.HTML(fmt.Sprintf("%v ago", timeStr))
	} else {
		return template.HTML(fmt.Sprintf("in %v", timeStr))
	}
}

func FormatGraffiti(graffiti []byte) template.HTML {
	return template.HTML(fmt.Sprintf("<span class=\"graffiti-label\" data-graffiti=\"%#x\">%s</span>", graffiti, html.EscapeString(GraffitiToString(graffiti))))
}
