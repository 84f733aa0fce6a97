package compose

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
)

// RenderPreview returns one HTML fragment per slide mirroring its content.
func RenderPreview(slides []Slide) []string {
	out := make([]string, len(slides))
	for i, s := range slides {
		out[i] = renderSlidePreview(s)
	}
	return out
}

// RenderPreviewDocument wraps all slide fragments in a standalone page.
func RenderPreviewDocument(title string, slides []Slide) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&sb, "<title>%s</title>", html.EscapeString(title))
	sb.WriteString("<style>")
	sb.WriteString(".slide{margin-bottom:30px;padding:20px;border:1px solid #ddd;border-radius:8px;background:#fafafa}")
	sb.WriteString(".slide .media{display:flex;gap:20px;align-items:flex-start}")
	sb.WriteString(".slide table{width:100%;margin-top:15px;border-collapse:collapse;font-size:0.85em}")
	sb.WriteString(".slide th,.slide td{border:1px solid #ddd;padding:4px}")
	sb.WriteString(".slide th{background:#f8f9fa}")
	sb.WriteString("</style></head><body>\n")
	for _, frag := range RenderPreview(slides) {
		sb.WriteString(frag)
		sb.WriteString("\n")
	}
	sb.WriteString("</body></html>\n")
	return sb.String()
}

func renderSlidePreview(s Slide) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<div class=\"slide\" data-scene=\"%d\">", s.Scene)
	fmt.Fprintf(&sb, "<h4>%s</h4>", html.EscapeString(s.Title))

	sb.WriteString("<div class=\"media\">")
	fmt.Fprintf(&sb, "<div style=\"flex:2\"><img src=\"%s\" style=\"max-width:100%%;height:200px;object-fit:cover\"></div>",
		dataURI(s.Photo))
	fmt.Fprintf(&sb, "<div style=\"flex:1\"><h5>%s</h5><img src=\"%s\" style=\"max-width:100%%;height:120px;object-fit:contain\"></div>",
		html.EscapeString(s.MinimapLabel), dataURI(s.Minimap))
	sb.WriteString("</div>")

	sb.WriteString("<table><thead><tr>")
	for _, h := range s.Table.Header {
		fmt.Fprintf(&sb, "<th>%s</th>", html.EscapeString(h))
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range s.Table.Rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&sb, "<td>%s</td>", html.EscapeString(cell))
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table></div>")
	return sb.String()
}

func dataURI(p Picture) string {
	if len(p.Data) == 0 {
		return ""
	}
	return "data:image/" + p.Format + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}
