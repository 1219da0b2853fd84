package ingest

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// pptxProcessor extracts one Page per slide. A pptx is a zip archive of
// parts; each slide's text runs live in ppt/slides/slideN.xml as <a:t>
// elements, grouped into <a:p> paragraphs inside each shape's text body.
// The first non-empty paragraph on a slide is treated as its title and
// prepended so the page reads naturally rather than as a flat run-on of
// every text box. Only top-level shapes are read; text inside grouped
// shapes is not extracted.
type pptxProcessor struct{}

func (p *pptxProcessor) Accepts(ext string) bool { return ext == ".pptx" }

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type pptxTextBody struct {
	Paragraphs []struct {
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"cSld>spTree>sp>txBody>p"`
}

func (p *pptxProcessor) Extract(ctx context.Context, filePath string) (Result, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return Result{}, err
	}
	defer zr.Close()

	type slideFile struct {
		num int
		f   *zip.File
	}
	var slides []slideFile
	for _, f := range zr.File {
		m := slideNameRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slideFile{num: n, f: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	pages := make([]Page, 0, len(slides))
	for i, s := range slides {
		rc, err := s.f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		var body pptxTextBody
		if err := xml.Unmarshal(data, &body); err != nil {
			continue
		}

		var runs []string
		for _, para := range body.Paragraphs {
			var line strings.Builder
			for _, r := range para.Runs {
				line.WriteString(r.Text)
			}
			if line.Len() > 0 {
				runs = append(runs, line.String())
			}
		}
		if len(runs) == 0 {
			continue
		}

		title := runs[0]
		var content strings.Builder
		fmt.Fprintf(&content, "%s\n\n", title)
		for _, line := range runs[1:] {
			content.WriteString(line)
			content.WriteByte('\n')
		}

		pages = append(pages, Page{
			Number:  i + 1,
			Content: content.String(),
			Extra:   map[string]interface{}{"title": title},
		})
	}

	return Result{
		Pages:    pages,
		Metadata: map[string]string{"format": "pptx", "filename": filepath.Base(filePath)},
	}, nil
}
