// Package segment splits the raw document dump into one text block per
// employee. It prefers over-splitting: a stray header produces an
// empty-looking block that downstream filtering discards, while merging two
// employees would corrupt both totals.
package segment

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/contare/payslip-reconciler/internal/common"
	"github.com/contare/payslip-reconciler/internal/entity"
)

var (
	// "Empr.:" opens an employee section on the statement layout.
	markerRe = regexp.MustCompile(`(?i)^\s*Empr\.?\s*:`)
	// Lines carrying the employee's labelled tax ID.
	cpfTokenRe = regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b|(?i)\bCPF\s*[:\-]?\s*\d{11}\b`)

	periodRe = regexp.MustCompile(`(?i)\bMensalista\s+([A-Za-zÇçÃãÕõÁáÉéÍíÓóÚúÂâÊêÔô]+)\s+de\s+(20\d{2})\b`)
)

var monthsPT = map[string]string{
	"JANEIRO": "01", "FEVEREIRO": "02", "MARÇO": "03", "MARCO": "03",
	"ABRIL": "04", "MAIO": "05", "JUNHO": "06", "JULHO": "07",
	"AGOSTO": "08", "SETEMBRO": "09", "OUTUBRO": "10", "NOVEMBRO": "11",
	"DEZEMBRO": "12",
}

// Document is the collaborator-extracted text, one string per page.
type Document struct {
	Pages []string
}

// DetectPeriod finds the "Mensalista <month> de <year>" header anywhere in
// the document and returns it as MM/YYYY, or "" when absent.
func (d Document) DetectPeriod() string {
	for _, page := range d.Pages {
		m := periodRe.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		if mm, ok := monthsPT[strings.ToUpper(m[1])]; ok {
			return mm + "/" + m[2]
		}
	}
	return ""
}

// Segmenter cuts a Document into per-employee blocks.
type Segmenter struct {
	logger *slog.Logger
}

func NewSegmenter(logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{logger: logger}
}

// Run returns the ordered employee blocks. A new block starts on an
// employee-header line, or on a page boundary once the running block already
// carries a tax ID. Returns ErrSegmentation when no header exists anywhere.
func (s *Segmenter) Run(doc Document) ([]*entity.EmployeeBlock, error) {
	headerIsMarker := false
	for _, page := range doc.Pages {
		for _, ln := range strings.Split(page, "\n") {
			if markerRe.MatchString(ln) {
				headerIsMarker = true
			}
		}
	}

	isHeader := func(line string) bool {
		if headerIsMarker {
			return markerRe.MatchString(line)
		}
		return cpfTokenRe.MatchString(line)
	}

	var blocks []*entity.EmployeeBlock
	var cur *strings.Builder
	curPage := 0
	headers := 0

	flush := func() {
		if cur == nil {
			return
		}
		text := cur.String()
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, &entity.EmployeeBlock{
				Index:   len(blocks),
				Page:    curPage,
				RawText: text,
			})
		}
		cur = nil
	}

	for pageIdx, page := range doc.Pages {
		pageNo := pageIdx + 1
		if cur != nil && cpfTokenRe.MatchString(cur.String()) {
			// Crossing a page with an identified employee in hand: content
			// says the next employee begins here, header or not.
			flush()
			cur = &strings.Builder{}
			curPage = pageNo
		}
		for _, ln := range strings.Split(page, "\n") {
			if isHeader(ln) {
				headers++
				flush()
				cur = &strings.Builder{}
				curPage = pageNo
			}
			if cur != nil {
				cur.WriteString(ln)
				cur.WriteString("\n")
			}
		}
	}
	flush()

	if headers == 0 {
		return nil, common.WrapError(common.ErrSegmentation, "no employee header pattern found in document")
	}

	s.logger.Info("segment.done", "pages", len(doc.Pages), "blocks", len(blocks), "headers", headers)
	return blocks, nil
}
