package ines

import "fmt"

// MapperInfo describes a cartridge hardware class from the NESdev mapper
// list.
type MapperInfo struct {
	Name       string
	Alternates []string
	Notes      string
}

// mapperDB maps assigned mapper numbers to what is known about the board.
// Condensed from the NESdev wiki list; numbers without a documented board
// are simply absent.
var mapperDB = map[int]MapperInfo{
	0:   {Name: "NROM"},
	1:   {Name: "MMC1", Alternates: []string{"SxROM"}},
	2:   {Name: "UxROM"},
	3:   {Name: "CNROM"},
	4:   {Name: "MMC3", Alternates: []string{"TxROM", "MMC6"}},
	5:   {Name: "MMC5", Alternates: []string{"ExROM"}, Notes: "Contains expansion sound"},
	7:   {Name: "AxROM"},
	9:   {Name: "MMC2", Alternates: []string{"PxROM"}},
	10:  {Name: "MMC4", Alternates: []string{"FxROM"}},
	11:  {Name: "Color Dreams"},
	13:  {Name: "CPROM"},
	15:  {Name: "100-in-1 Contra Function 16", Notes: "Multicart"},
	16:  {Name: "Bandai EPROM (24C02)"},
	18:  {Name: "Jaleco SS8806"},
	19:  {Name: "Namco 163", Notes: "Contains expansion sound"},
	21:  {Name: "VRC4", Alternates: []string{"VRC4a", "VRC4c"}},
	22:  {Name: "VRC2", Alternates: []string{"VRC2a"}},
	23:  {Name: "VRC2/VRC4", Alternates: []string{"VRC2b", "VRC4e"}},
	24:  {Name: "VRC6", Alternates: []string{"VRC6a"}, Notes: "Contains expansion sound"},
	25:  {Name: "VRC4", Alternates: []string{"VRC4b", "VRC4d"}},
	26:  {Name: "VRC6", Alternates: []string{"VRC6b"}, Notes: "Contains expansion sound"},
	34:  {Name: "BNROM", Alternates: []string{"NINA-001"}},
	64:  {Name: "RAMBO-1", Notes: "MMC3 clone with extra features"},
	66:  {Name: "GxROM", Alternates: []string{"MxROM"}},
	68:  {Name: "After Burner", Notes: "ROM-based nametables"},
	69:  {Name: "Sunsoft FME-7", Alternates: []string{"Sunsoft 5B"}, Notes: "The 5B is the FME-7 with expansion sound"},
	71:  {Name: "Camerica/Codemasters", Notes: "Similar to UNROM"},
	73:  {Name: "VRC3"},
	74:  {Name: "Pirate MMC3 derivative", Notes: "Has both CHR ROM and CHR RAM (2k)"},
	75:  {Name: "VRC1"},
	76:  {Name: "Namco 109 variant"},
	79:  {Name: "NINA-03/NINA-06", Notes: "It's either 003 or 006, we don't know right now"},
	85:  {Name: "VRC7", Notes: "Contains expansion sound"},
	86:  {Name: "JALECO-JF-13"},
	94:  {Name: "Senjou no Ookami"},
	105: {Name: "NES-EVENT", Notes: "Similar to MMC1"},
	113: {Name: "NINA-03/NINA-06??", Notes: "For multicarts including mapper 79 games"},
	118: {Name: "TxSROM", Alternates: []string{"MMC3"}, Notes: "MMC3 with independent mirroring control"},
	119: {Name: "TQROM", Alternates: []string{"MMC3"}, Notes: "Has both CHR ROM and CHR RAM"},
	159: {Name: "Bandai EPROM (24C01)"},
	166: {Name: "SUBOR"},
	167: {Name: "SUBOR"},
	180: {Name: "Crazy Climber", Notes: "Variation of UNROM, fixed first bank at $8000"},
	185: {Name: "CNROM with protection diodes"},
	192: {Name: "Pirate MMC3 derivative", Notes: "Has both CHR ROM and CHR RAM (4k)"},
	206: {Name: "DxROM", Alternates: []string{"Namco 118", "MIMIC-1"}, Notes: "Simplified MMC3 predecessor lacking some features"},
	210: {Name: "Namco 175 and 340", Notes: "Namco 163 with different mirroring"},
	228: {Name: "Action 52"},
	232: {Name: "Camerica/Codemasters Quattro", Notes: "Multicarts"},
}

// MapperName returns the primary board name for a mapper number, or
// "Unknown (n)" when the number is not in the database.
func MapperName(n int) string {
	if mi, ok := mapperDB[n]; ok {
		return mi.Name
	}
	return fmt.Sprintf("Unknown (%d)", n)
}

// LookupMapper returns the full database entry for a mapper number.
func LookupMapper(n int) (MapperInfo, bool) {
	mi, ok := mapperDB[n]
	return mi, ok
}
