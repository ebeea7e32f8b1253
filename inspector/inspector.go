// Package inspector serves derived mapping configurations over HTTP so
// that translations can be probed from a browser or from scripts.
package inspector

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"

	"github.com/sarchlab/drammap/dramaddr"
	"github.com/sarchlab/drammap/memconfig"
)

// Inspector turns a configuration table into a web server that answers
// mapping queries.
type Inspector struct {
	table       *memconfig.Table
	portNumber  int
	openBrowser bool
}

// NewInspector creates a new Inspector serving the given table.
func NewInspector(table *memconfig.Table) *Inspector {
	return &Inspector{table: table}
}

// WithPortNumber sets the port number of the inspector server.
func (i *Inspector) WithPortNumber(portNumber int) *Inspector {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the inspector server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	i.portNumber = portNumber

	return i
}

// WithBrowserOpen makes StartServer open the configuration listing in
// the default browser once the server is listening.
func (i *Inspector) WithBrowserOpen() *Inspector {
	i.openBrowser = true

	return i
}

// StartServer starts the inspector as a web server with a custom port
// if wanted.
func (i *Inspector) StartServer() {
	r := i.router()

	actualPort := ":0"
	if i.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(i.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Inspecting configurations with %s\n", url)

	if i.openBrowser {
		err := browser.OpenURL(url + "/api/configs")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()
}

func (i *Inspector) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/configs", i.listConfigs)
	r.HandleFunc("/api/configs/{identifier}", i.showConfig)
	r.HandleFunc("/api/map/{identifier}", i.mapAddress)
	r.HandleFunc("/api/unmap/{identifier}", i.unmapAddress)

	return r
}

type configSummary struct {
	Name       string `json:"name"`
	Identifier uint64 `json:"identifier"`
	Width      int    `json:"width"`
}

func (i *Inspector) listConfigs(w http.ResponseWriter, _ *http.Request) {
	configs := i.table.Configs()

	summaries := make([]configSummary, 0, len(configs))
	for _, c := range configs {
		summaries = append(summaries, configSummary{
			Name:       c.Name,
			Identifier: c.Identifier,
			Width:      c.Width(),
		})
	}

	writeJSON(w, summaries)
}

func (i *Inspector) showConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := i.findConfigOr404(w, r)
	if !ok {
		return
	}

	writeJSON(w, cfg)
}

type translationRsp struct {
	Addr uint64 `json:"addr"`
	Bank uint64 `json:"bank"`
	Row  uint64 `json:"row"`
	Col  uint64 `json:"col"`
}

func (i *Inspector) mapAddress(w http.ResponseWriter, r *http.Request) {
	cfg, ok := i.findConfigOr404(w, r)
	if !ok {
		return
	}

	addr, err := queryUint(r, "addr")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	a := dramaddr.NewTranslator(cfg).Map(addr)

	writeJSON(w, translationRsp{
		Addr: addr,
		Bank: a.Bank,
		Row:  a.Row,
		Col:  a.Col,
	})
}

func (i *Inspector) unmapAddress(w http.ResponseWriter, r *http.Request) {
	cfg, ok := i.findConfigOr404(w, r)
	if !ok {
		return
	}

	a := dramaddr.Addr{}

	fields := []struct {
		name string
		dst  *uint64
	}{
		{"bank", &a.Bank},
		{"row", &a.Row},
		{"col", &a.Col},
	}
	for _, f := range fields {
		v, err := queryUint(r, f.name)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Error: %s", err)
			return
		}

		*f.dst = v
	}

	addr := dramaddr.NewTranslator(cfg).Unmap(a)

	writeJSON(w, translationRsp{
		Addr: addr,
		Bank: a.Bank,
		Row:  a.Row,
		Col:  a.Col,
	})
}

func (i *Inspector) findConfigOr404(
	w http.ResponseWriter,
	r *http.Request,
) (memconfig.Config, bool) {
	idString := mux.Vars(r)["identifier"]

	id, err := strconv.ParseUint(idString, 0, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return memconfig.Config{}, false
	}

	cfg, ok := i.table.Lookup(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Config not found"))
		dieOnErr(err)
		return memconfig.Config{}, false
	}

	return cfg, true
}

// queryUint reads one numeric query parameter. Missing parameters read
// as zero; both decimal and 0x-prefixed values are accepted.
func queryUint(r *http.Request, name string) (uint64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		s = "0"
	}

	return strconv.ParseUint(s, 0, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
