package main

import (
	"io"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/bloopsaphone/bloops"
	"github.com/bloopsaphone/bloops/notation"
)

const infoTemplate = `{{.Name}}: {{.Song.BPM}} BPM, volume {{.Song.MasterVolume | printf "%.2f"}}, {{len .Song.Tracks}} {{if eq (len .Song.Tracks) 1}}track{{else}}tracks{{end}}
{{- range $i, $t := .Song.Tracks}}
  {{$i}}: {{if $t.Instrument}}inline {{$t.Instrument.Type}}{{else}}{{default "square" $t.Preset | lower}}{{end}}, {{len (notes $t.Notation)}} notes, {{seconds (notes $t.Notation) $.Song.BPM | printf "%.2f"}} s  {{abbrev 40 (nospace $t.Notation) | quote}}
{{- end}}
`

var infoTmpl = template.Must(template.New("info").Funcs(sprig.TxtFuncMap()).Funcs(template.FuncMap{
	"notes":   notation.Parse,
	"seconds": seconds,
}).Parse(infoTemplate))

func printInfo(w io.Writer, s namedSong) error {
	return infoTmpl.Execute(w, s)
}

// seconds is how long the notes take to play at the tempo, not counting the
// decay of the last note.
func seconds(notes []bloops.Note, tempo int) float64 {
	var beats float64
	for _, n := range notes {
		beats += 4 / float64(max(n.Duration, 1))
	}
	return beats * 60 / float64(max(tempo, 1))
}
