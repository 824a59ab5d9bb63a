// Package elements maps chemical symbols to atomic numbers for the
// first 94 elements (hydrogen through plutonium).
package elements

import "fmt"

// symbols is ordered by atomic number, so symbols[z-1] is element z.
var symbols = [94]string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu",
}

var byName = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols {
		m[s] = i + 1
	}
	return m
}()

// AtomicNumber returns the atomic number for a symbol.
func AtomicNumber(symbol string) (int, error) {
	z, ok := byName[symbol]
	if !ok {
		return 0, fmt.Errorf("elements: unknown symbol %q", symbol)
	}
	return z, nil
}

// Symbol returns the symbol for atomic number z, 1 through 94.
func Symbol(z int) (string, error) {
	if z < 1 || z > len(symbols) {
		return "", fmt.Errorf("elements: atomic number %d out of range [1, %d]", z, len(symbols))
	}
	return symbols[z-1], nil
}
