package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Area is the department a ticket is routed to.
type Area string

const (
	AreaIT         Area = "TI"
	AreaHR         Area = "RH"
	AreaFinance    Area = "Financeiro"
	AreaCommercial Area = "Comercial"
)

// Board is the sub-queue inside an area.
type Board string

const (
	BoardIncidents Board = "Incidentes"
	BoardRequests  Board = "Solicitações"
)

var (
	validAreas  = []Area{AreaIT, AreaHR, AreaFinance, AreaCommercial}
	validBoards = []Board{BoardIncidents, BoardRequests}
)

// foldKey builds a fresh Caser per call; Casers are not safe for concurrent use.
func foldKey(s string) string {
	return cases.Fold().String(s)
}

func (a Area) String() string {
	return string(a)
}

func (a Area) IsValid() bool {
	for _, v := range validAreas {
		if v == a {
			return true
		}
	}
	return false
}

func AllAreas() []Area {
	out := make([]Area, len(validAreas))
	copy(out, validAreas)
	return out
}

// NewArea matches s case-insensitively against the known areas.
func NewArea(s string) (Area, error) {
	key := foldKey(strings.TrimSpace(s))
	for _, v := range validAreas {
		if foldKey(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid area: %s", s)
}

func (b Board) String() string {
	return string(b)
}

func (b Board) IsValid() bool {
	for _, v := range validBoards {
		if v == b {
			return true
		}
	}
	return false
}

func AllBoards() []Board {
	out := make([]Board, len(validBoards))
	copy(out, validBoards)
	return out
}

// NewBoard matches s case-insensitively; "Solicitacoes" without the
// accents is accepted for clients that cannot send them.
func NewBoard(s string) (Board, error) {
	key := foldKey(strings.TrimSpace(s))
	if key == foldKey("Solicitacoes") {
		return BoardRequests, nil
	}
	for _, v := range validBoards {
		if foldKey(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid board: %s", s)
}
