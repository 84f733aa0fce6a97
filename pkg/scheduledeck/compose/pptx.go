package compose

import (
	"bytes"
	"fmt"
	"io"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"
	"github.com/unidoc/unioffice/schema/soo/pml"
)

var (
	titleColor  = color.RGB(0x36, 0x36, 0x36)
	labelColor  = color.RGB(0x55, 0x55, 0x55)
	textColor   = color.RGB(0x33, 0x33, 0x33)
	borderColor = color.RGB(0xCC, 0xCC, 0xCC)
	headerFill  = color.RGB(0xF8, 0xF9, 0xFA)
	cellFill    = color.RGB(0xFF, 0xFF, 0xFF)
)

// WritePPTX serializes slides as a pptx deck. The deck is built in memory
// and nothing reaches w unless every slide succeeded.
func WritePPTX(w io.Writer, layout Layout, slides []Slide) error {
	ppt := presentation.New()
	ppt.X().SldSz = &pml.CT_SlideSize{
		CxAttr: int32(InchesToEMU(layout.SlideWidth)),
		CyAttr: int32(InchesToEMU(layout.SlideHeight)),
	}

	for _, s := range slides {
		if err := addSlide(ppt, s); err != nil {
			return fmt.Errorf("slide %d: %w", s.Scene+1, err)
		}
	}
	if err := ppt.Validate(); err != nil {
		return fmt.Errorf("validate deck: %w", err)
	}

	var buf bytes.Buffer
	if err := ppt.Save(&buf); err != nil {
		return fmt.Errorf("save deck: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func addSlide(ppt *presentation.Presentation, s Slide) error {
	slide := ppt.AddSlide()

	addText(slide, s.TitleBox, s.Title, s.TitleFontSize, true, titleColor)
	if err := addPicture(ppt, slide, s.Photo); err != nil {
		return fmt.Errorf("scene image: %w", err)
	}
	addText(slide, s.LabelBox, s.MinimapLabel, s.LabelFontSize, true, labelColor)
	if err := addPicture(ppt, slide, s.Minimap); err != nil {
		return fmt.Errorf("minimap: %w", err)
	}
	addTable(slide, s.Table)
	return nil
}

func addText(slide presentation.Slide, box Box, text string, size float64, bold bool, c color.Color) {
	tb := slide.AddTextBox()
	tb.Properties().SetPosition(inches(box.X), inches(box.Y))
	tb.Properties().SetSize(inches(box.W), inches(box.H))

	run := tb.AddParagraph().AddRun()
	run.SetText(text)
	run.Properties().SetSize(points(size))
	run.Properties().SetBold(bold)
	run.Properties().SetSolidFill(c)
}

func addPicture(ppt *presentation.Presentation, slide presentation.Slide, pic Picture) error {
	img, err := common.ImageFromBytes(pic.Data)
	if err != nil {
		return err
	}
	ref, err := ppt.AddImage(img)
	if err != nil {
		return err
	}
	ib := slide.AddImage(ref)
	ib.Properties().SetPosition(inches(pic.Box.X), inches(pic.Box.Y))
	ib.Properties().SetSize(inches(pic.Box.W), inches(pic.Box.H))
	return nil
}

// addTable lays the table out as a grid of bordered text boxes, header first.
func addTable(slide presentation.Slide, t Table) {
	rows := append([][]string{t.Header}, t.Rows...)
	y := t.Box.Y
	for ri, row := range rows {
		x := t.Box.X
		for ci, w := range t.ColumnWidths {
			text := ""
			if ci < len(row) {
				text = row[ci]
			}

			tb := slide.AddTextBox()
			sp := tb.Properties()
			sp.SetPosition(inches(x), inches(y))
			sp.SetSize(inches(w), inches(t.RowHeight))
			if ri == 0 {
				sp.SetSolidFill(headerFill)
			} else {
				sp.SetSolidFill(cellFill)
			}
			sp.LineProperties().SetWidth(1 * measurement.Point)
			sp.LineProperties().SetSolidFill(borderColor)

			run := tb.AddParagraph().AddRun()
			run.SetText(text)
			run.Properties().SetSize(points(t.FontSize))
			run.Properties().SetSolidFill(textColor)
			if ri == 0 {
				run.Properties().SetBold(true)
			}
			x += w
		}
		y += t.RowHeight
	}
}

func inches(v float64) measurement.Distance {
	return measurement.Distance(v) * measurement.Inch
}

func points(v float64) measurement.Distance {
	return measurement.Distance(v) * measurement.Point
}
