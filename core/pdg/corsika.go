package pdg

// CORSIKA 7 particle codes (user guide, table 4). Nuclei are A*100+Z and
// handled arithmetically.
var corsikaToPDG = map[int]ID{
	1: 22, 2: -11, 3: 11, 5: -13, 6: 13, 7: 111, 8: 211, 9: -211,
	10: 130, 11: 321, 12: -321, 13: 2112, 14: 2212, 15: -2212, 16: 310,
	17: 221, 18: 3122, 19: 3222, 20: 3212, 21: 3112, 22: 3322, 23: 3312,
	24: 3334, 25: -2112, 26: -3122, 27: -3222, 28: -3212, 29: -3112,
	30: -3322, 31: -3312, 32: -3334,
	48: 331, 49: 333, 50: 223, 51: 113, 52: 213, 53: -213,
	54: 2224, 55: 2214, 56: 2114, 57: 1114, 58: -2224, 59: -2214,
	60: -2114, 61: -1114, 62: 313, 63: 323, 64: -323, 65: -313,
	66: 12, 67: -12, 68: 14, 69: -14,
	116: 421, 117: 411, 118: -411, 119: -421, 120: 431, 121: -431,
	122: 441, 123: 423, 124: 413, 125: -413, 126: -423, 127: 433,
	128: -433, 130: 443, 131: -15, 132: 15, 133: 16, 134: -16,
	137: 4122, 138: 4232, 139: 4132, 140: 4222, 141: 4212, 142: 4112,
	143: 4322, 144: 4312, 145: 4332,
	149: -4122, 150: -4232, 151: -4132, 152: -4222, 153: -4212,
	154: -4112, 155: -4322, 156: -4312, 157: -4332,
	161: 4224, 162: 4214, 163: 4114, 171: -4224, 172: -4214, 173: -4114,
	176: 511, 177: 521, 178: -521, 179: -511, 180: 531, 181: -531,
	182: 541, 183: -541, 184: 5122, 185: 5112, 186: 5222, 187: 5232,
	188: 5132, 189: 5332, 190: -5122, 191: -5112, 192: -5222,
	193: -5232, 194: -5132, 195: -5332,
}

var pdgToCorsika = func() map[ID]int {
	m := make(map[ID]int, len(corsikaToPDG))
	for c, p := range corsikaToPDG {
		m[p] = c
	}
	return m
}()

// FromCorsika converts a CORSIKA 7 particle code. Codes that carry
// additional information instead of a particle (eta decay channels 71-74,
// muon information 75/76, decaying muons 85/86, 95/96, Cherenkov photons)
// and unknown codes map to ErrorID.
func FromCorsika(cid int) ID {
	if id, ok := corsikaToPDG[cid]; ok {
		return id
	}
	if cid >= 200 && cid < 9900 {
		a, z := cid/100, cid%100
		if z >= 1 && z <= a {
			return Nucleus(z, a)
		}
	}
	return ErrorID
}

// ToCorsika is the inverse of FromCorsika. The hydrogen nucleus maps to the
// proton code 14.
func ToCorsika(id ID) (int, bool) {
	if id == HydrogenNucleus {
		id = Proton
	}
	if c, ok := pdgToCorsika[id]; ok {
		return c, true
	}
	if id.IsNucleus() && id.A() >= 2 {
		return id.A()*100 + id.Z(), true
	}
	return 0, false
}
