package web

import (
    "bytes"
    "fmt"
    "html/template"
    "time"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/app"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
        "clock": func(d time.Duration) string {
            secs := int(d / time.Second)
            return fmt.Sprintf("%d:%02d", secs/60, secs%60)
        },
        "winRate": func(sc app.Scores, c domain.Cell) string {
            return fmt.Sprintf("%.1f%%", sc.WinRate(c))
        },
    }
}

// Options for the create form.
type indexData struct {
    Sizes        []int
    Difficulties []ai.Difficulty
    DefaultSize  int
    Default      ai.Difficulty
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.row form{margin:0}
.row button{width:3em;height:3em;font-size:1.5em}
.row button.win{background:#ffd54f}
.alert{color:#b00020}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic-Tac-Toe {{.Game.Settings.Size}}&times;{{.Game.Settings.Size}}</h1>
<p><a href="/">Change settings</a></p>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-container" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const indexTemplate = `<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post">
  <label>Grid
    <select name="size">
      {{range .Sizes}}<option value="{{.}}"{{if eq . $.DefaultSize}} selected{{end}}>{{.}}&times;{{.}}</option>{{end}}
    </select>
  </label>
  <label>Mode
    <select name="mode">
      <option value="pvc" selected>vs Computer</option>
      <option value="pvp">vs Player</option>
    </select>
  </label>
  <label>Difficulty
    <select name="difficulty">
      {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Default}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Computer plays
    <select name="computer">
      <option value="O" selected>O</option>
      <option value="X">X</option>
    </select>
  </label>
  <button>Create</button>
</form>`

const boardTemplate = `
<div id="board" data-size="{{.Game.Settings.Size}}">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">{{.Game.Status}}</p>
  {{$size := .Game.Settings.Size}}
  {{range $r := iter $size}}
  <div class="row">
    {{range $c := iter $size}}{{$i := add (mul $r $size) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="i" value="{{$i}}">
        <button type="submit"{{if $.Game.OnLine $i}} class="win"{{end}}{{if not ($.Game.Playable $i)}} disabled{{end}}>{{cellSymbol (index $.Game.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <p class="meta">{{.Game.Settings.WinLength}} in a row &middot; move {{.Game.Moves}} &middot; {{clock .Game.Elapsed}}</p>
  <table class="scores">
    <tr><th>{{.Game.Settings.NameX}} (X)</th><th>Draws</th><th>{{.Game.Settings.NameO}} (O)</th></tr>
    <tr><td>{{.Game.Scores.X}}</td><td>{{.Game.Scores.Draws}}</td><td>{{.Game.Scores.O}}</td></tr>
  </table>
  <p class="rate">Games {{.Game.Scores.Games}} &middot; {{cellSymbol .Game.Human}} win rate {{winRate .Game.Scores .Game.Human}}{{if .Game.Scores.Points}} &middot; {{.Game.Scores.Points}} points{{end}}</p>
  <div class="controls">
    <form hx-post="/game/{{.ID}}/undo" hx-target="#board" hx-swap="outerHTML" method="post"><button{{if .Game.Over}} disabled{{end}}>Undo</button></form>
    <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Play again</button></form>
    <form hx-post="/game/{{.ID}}/new" hx-target="#board" hx-swap="outerHTML" method="post"><button>New game</button></form>
  </div>
</div>
`
