package pcb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
)

// WriteFile serializes the board to a .kicad_pcb file.
func (b *Board) WriteFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := b.Write(file); err != nil {
		return err
	}
	return file.Sync()
}

// Write serializes the board as KiCad S-expression text. The output
// parses back with Parse; formatting-only details of the source file
// (ordering of unknown nodes, zone fills) are not preserved.
func (b *Board) Write(w io.Writer) error {
	bw := &boardWriter{w: bufio.NewWriter(w)}

	bw.printf("(kicad_pcb\n")
	bw.printf("  (version %d)\n", b.Version)
	bw.printf("  (generator %s)\n", sexp.Quote(b.Generator))

	bw.writeGeneral(&b.General)
	bw.writeLayers(b.Layers)

	for _, net := range b.Nets {
		bw.printf("  (net %d %s)\n", net.Number, sexp.Quote(net.Name))
	}

	bw.writeGraphics(&b.Graphics, "  ", "gr")

	for _, fp := range b.Footprints {
		bw.writeFootprint(fp)
	}

	for _, track := range b.Tracks {
		bw.printf("  (segment (start %s %s) (end %s %s) (width %s) (layer %s)",
			ff(track.Start.X), ff(track.Start.Y), ff(track.End.X), ff(track.End.Y),
			ff(track.Width), sexp.Quote(track.Layer))
		if track.Net != nil {
			bw.printf(" (net %d)", track.Net.Number)
		}
		bw.printf(")\n")
	}

	for _, via := range b.Vias {
		bw.printf("  (via (at %s %s) (size %s) (drill %s) (layers",
			ff(via.Position.X), ff(via.Position.Y), ff(via.Size), ff(via.Drill))
		for _, layer := range via.Layers {
			bw.printf(" %s", sexp.Quote(layer))
		}
		bw.printf(")")
		if via.Net != nil {
			bw.printf(" (net %d)", via.Net.Number)
		}
		bw.printf(")\n")
	}

	bw.printf(")\n")

	if bw.err != nil {
		return fmt.Errorf("failed to write board: %w", bw.err)
	}
	return bw.w.Flush()
}

// boardWriter accumulates the first write error so the emitters above
// stay free of error plumbing.
type boardWriter struct {
	w   *bufio.Writer
	err error
}

func (bw *boardWriter) printf(format string, args ...any) {
	if bw.err != nil {
		return
	}
	_, bw.err = fmt.Fprintf(bw.w, format, args...)
}

func (bw *boardWriter) writeGeneral(g *General) {
	bw.printf("  (general\n")
	bw.printf("    (thickness %s)\n", ff(g.Thickness))
	if g.Title != "" {
		bw.printf("    (title %s)\n", sexp.Quote(g.Title))
	}
	if g.Date != "" {
		bw.printf("    (date %s)\n", sexp.Quote(g.Date))
	}
	if g.Revision != "" {
		bw.printf("    (rev %s)\n", sexp.Quote(g.Revision))
	}
	if g.Company != "" {
		bw.printf("    (company %s)\n", sexp.Quote(g.Company))
	}
	bw.printf("  )\n")
}

func (bw *boardWriter) writeLayers(layers []Layer) {
	if len(layers) == 0 {
		return
	}
	bw.printf("  (layers\n")
	for _, layer := range layers {
		bw.printf("    (%d %s %s)\n", layer.Number, sexp.Quote(layer.Name), layer.Type)
	}
	bw.printf("  )\n")
}

// writeGraphics emits the primitives with the given node key prefix:
// "gr" for board graphics, "fp" for footprint graphics.
func (bw *boardWriter) writeGraphics(g *Graphics, indent, prefix string) {
	for _, line := range g.Lines {
		bw.printf("%s(%s_line (start %s %s) (end %s %s) (layer %s) (width %s))\n",
			indent, prefix, ff(line.Start.X), ff(line.Start.Y), ff(line.End.X), ff(line.End.Y),
			sexp.Quote(line.Layer), ff(line.Width))
	}
	for _, rect := range g.Rects {
		bw.printf("%s(%s_rect (start %s %s) (end %s %s) (layer %s) (width %s))\n",
			indent, prefix, ff(rect.Start.X), ff(rect.Start.Y), ff(rect.End.X), ff(rect.End.Y),
			sexp.Quote(rect.Layer), ff(rect.Width))
	}
	for _, circle := range g.Circles {
		bw.printf("%s(%s_circle (center %s %s) (end %s %s) (layer %s) (width %s))\n",
			indent, prefix, ff(circle.Center.X), ff(circle.Center.Y), ff(circle.End.X), ff(circle.End.Y),
			sexp.Quote(circle.Layer), ff(circle.Width))
	}
	for _, arc := range g.Arcs {
		bw.printf("%s(%s_arc (start %s %s) (mid %s %s) (end %s %s) (layer %s) (width %s))\n",
			indent, prefix, ff(arc.Start.X), ff(arc.Start.Y), ff(arc.Mid.X), ff(arc.Mid.Y),
			ff(arc.End.X), ff(arc.End.Y), sexp.Quote(arc.Layer), ff(arc.Width))
	}
}

func (bw *boardWriter) writeFootprint(fp *Footprint) {
	name := fp.Name
	if fp.Library != "" {
		name = fp.Library + ":" + fp.Name
	}

	bw.printf("  (footprint %s", sexp.Quote(name))
	if fp.Locked {
		bw.printf(" locked")
	}
	bw.printf("\n")
	if fp.Layer != "" {
		bw.printf("    (layer %s)\n", sexp.Quote(fp.Layer))
	}
	bw.printf("    (at %s)\n", fpa(fp.Position))
	if fp.UUID != "" {
		bw.printf("    (uuid %s)\n", sexp.Quote(fp.UUID))
	}

	if fp.Reference != "" && !hasText(fp.Texts, "reference") {
		bw.printf("    (property \"Reference\" %s)\n", sexp.Quote(fp.Reference))
	}
	if fp.Value != "" && !hasText(fp.Texts, "value") {
		bw.printf("    (property \"Value\" %s)\n", sexp.Quote(fp.Value))
	}

	for _, text := range fp.Texts {
		bw.printf("    (fp_text %s %s (at %s)", text.Type, sexp.Quote(text.Text), fpa(text.Position))
		if text.Layer != "" {
			bw.printf(" (layer %s)", sexp.Quote(text.Layer))
		}
		bw.printf(")\n")
	}

	bw.writeGraphics(&fp.Graphics, "    ", "fp")

	for _, pad := range fp.Pads {
		bw.writePad(pad)
	}

	bw.printf("  )\n")
}

func (bw *boardWriter) writePad(pad *Pad) {
	bw.printf("    (pad %s %s %s (at %s) (size %s %s)",
		sexp.Quote(pad.Number), pad.Type, pad.Shape, fpa(pad.Position),
		ff(pad.Size.Width), ff(pad.Size.Height))
	if pad.Drill != 0 {
		bw.printf(" (drill %s)", ff(pad.Drill))
	}
	bw.printf(" (layers")
	for _, layer := range pad.Layers {
		bw.printf(" %s", sexp.Quote(layer))
	}
	bw.printf(")")
	if pad.Net != nil {
		bw.printf(" (net %d %s)", pad.Net.Number, sexp.Quote(pad.Net.Name))
	}
	bw.printf(")\n")
}

// hasText reports whether an fp_text of the given type exists, so the
// writer does not duplicate it as a property node.
func hasText(texts []FpText, textType string) bool {
	for _, text := range texts {
		if text.Type == textType {
			return true
		}
	}
	return false
}

// ff formats a coordinate the way KiCad does: shortest exact decimal.
func ff(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// fpa formats an (at ...) payload, omitting a zero angle.
func fpa(p PositionAngle) string {
	if p.Angle == 0 {
		return fmt.Sprintf("%s %s", ff(p.X), ff(p.Y))
	}
	return fmt.Sprintf("%s %s %s", ff(p.X), ff(p.Y), ff(p.Angle))
}
