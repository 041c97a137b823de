package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// Route binds a path pattern to a page handler.
// SubPaths routes additionally match any deeper path, the first extra segment is available as the "tab" variable.
type Route struct {
	Name     string
	Path     string
	SubPaths bool
	Handler  http.HandlerFunc
}

// Routes is matched in declaration order
var Routes = []Route{
	{Name: "index", Path: "/", Handler: Index},
	{Name: "london", Path: "/special/london", Handler: London},
	{Name: "block", Path: "/block/{id}", Handler: Block},
	{Name: "block-txs", Path: "/block/{number}/txs", Handler: BlockTxs},
	{Name: "tx", Path: "/tx/{hash}", SubPaths: true, Handler: Transaction},
	{Name: "address", Path: "/address/{address}", SubPaths: true, Handler: Address},
	{Name: "epoch", Path: "/epoch/{epoch}", SubPaths: true, Handler: Epoch},
	{Name: "slot", Path: "/slot/{slot}", SubPaths: true, Handler: Slot},
	{Name: "validator", Path: "/validator/{index}", SubPaths: true, Handler: Validator},
	{Name: "faucets", Path: "/faucets", SubPaths: true, Handler: Faucets},
}

// NewRouter registers all page routes in declaration order.
// Additional routes may be added before the router is closed with HandleNotFound.
func NewRouter() *mux.Router {
	router := mux.NewRouter()
	for _, route := range Routes {
		router.HandleFunc(route.Path, route.Handler).Methods(http.MethodGet, http.MethodHead).Name(route.Name)
		if route.SubPaths {
			router.PathPrefix(route.Path+"/{tab}").HandlerFunc(route.Handler).Methods(http.MethodGet, http.MethodHead).Name(route.Name + "-sub")
		}
	}
	return router
}

// HandleNotFound registers the catch-all route, it has to be the last route of the router.
// Unmatched paths are passed to fallback (eg. a static file server) or get the not found page if fallback is nil.
func HandleNotFound(router *mux.Router, fallback http.Handler) {
	if fallback == nil {
		fallback = http.HandlerFunc(NotFound)
	}
	router.PathPrefix("/").Handler(fallback).Name("notfound")
	router.NotFoundHandler = http.HandlerFunc(NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(NotFound)
}

// routeVar returns a path variable of the matched route. Handlers only ask for variables of their own pattern.
func routeVar(r *http.Request, name string) string {
	value, found := mux.Vars(r)[name]
	if !found {
		panic(fmt.Sprintf("route variable %v missing for %v", name, r.URL.Path))
	}
	return value
}

// parseUintVar parses a numeric path variable, false if it is no valid unsigned number
func parseUintVar(r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(routeVar(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// routeTab returns the sub-path tab, or defaultTab for the base path
func routeTab(r *http.Request, defaultTab string) string {
	if tab := mux.Vars(r)["tab"]; tab != "" {
		return tab
	}
	return defaultTab
}
