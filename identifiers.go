package infraformat

import "strings"

// DecoderKind selects the scalar decoder applied to one field token.
type DecoderKind int

const (
	// KindString passes the token through unchanged.
	KindString DecoderKind = iota
	// KindInt parses an integer, widening to float64 when the token holds
	// a non-integral number. See decodeInt.
	KindInt
	// KindFloat parses a decimal-comma tolerant floating point number.
	KindFloat
)

// Field is one column of a record rule.
type Field struct {
	Name      string
	Kind      DecoderKind
	Mandatory bool
}

// Rule is the ordered field layout of one record tag.
type Rule struct {
	Fields []Field
}

// Arity returns the number of fields in the rule.
func (r Rule) Arity() int { return len(r.Fields) }

// SurveyRule is the field layout of one survey method. The HP method is
// phased: the H or P sub-rule is selected by a marker token on each data
// line instead of a single fixed layout.
type SurveyRule struct {
	Rule   Rule
	Phased bool
	H, P   Rule
}

func str(name string, mandatory bool) Field   { return Field{name, KindString, mandatory} }
func integ(name string, mandatory bool) Field { return Field{name, KindInt, mandatory} }
func flt(name string, mandatory bool) Field   { return Field{name, KindFloat, mandatory} }

// fileHeaderIdentifiers holds the file-scoped tags, emitted once per file
// and attached to every hole parsed from it.
var fileHeaderIdentifiers = map[string]Rule{
	"FO": {[]Field{str("Format version", false), str("Software", false), str("Software version", false)}},
	"KJ": {[]Field{str("Coordinate system", true), str("Height reference", false)}},
}

// headerIdentifiers holds the point-specific tags.
var headerIdentifiers = map[string]Rule{
	"OM": {[]Field{str("Owner", false)}},
	"ML": {[]Field{str("Soil or rock classification", false)}},
	"OR": {[]Field{str("Research organization", false)}},
	"TY": {[]Field{str("Work number", true), str("Work name", false)}},
	"PK": {[]Field{integ("Record number", false), str("Driller", false), str("Inspector", false), str("Handler", false)}},
	"TT": {[]Field{str("Survey abbreviation", true), integ("Class", false), str("Survey ID", true), str("Used standard", false), str("Sampler", false)}},
	"LA": {[]Field{integ("Device number", false), str("Device description text", false)}},
	"XY": {[]Field{flt("X", true), flt("Y", true), flt("Z-start", true), str("Date", true), str("Point ID", false)}},
	"LN": {[]Field{str("Line name or number", true), flt("Pole", false), flt("Distance", false)}},
	"-1": {[]Field{str("Ending", true)}},
	"GR": {[]Field{str("Software name", false), str("Date", false), str("Programmer", false)}},
	"GL": {[]Field{str("Survey info", false)}},
	"AT": {[]Field{str("Rock sample attribute", true), str("Possible value", true)}},
	"AL": {[]Field{flt("Initial boring depth", true), str("Initial boring method", false), str("Initial boring soil type", false)}},
	"ZP": {[]Field{flt("ZP1", false), flt("ZP2", false), flt("ZP3", false), flt("ZP4", false), flt("ZP5", false)}},
	"TP": {[]Field{str("TP1", false), flt("TP2", false), str("TP3", false), str("TP4", false), str("TP5", false)}},
	"LP": {[]Field{str("LP1", false), str("LP2", false), str("LP3", false), str("LP4", false), str("LP5", false)}},
}

// headerTagOrder is the tag order used when serializing a hole's header
// block. The "-1" ending is written at the end of the body instead.
var headerTagOrder = []string{
	"OM", "ML", "OR", "TY", "PK", "TT", "LA", "XY", "LN",
	"GR", "GL", "AT", "AL", "ZP", "TP", "LP",
}

// inlineIdentifiers holds the line-specific comment and observation tags.
var inlineIdentifiers = map[string]Rule{
	"HM": {[]Field{str("obs", false)}},
	"TX": {[]Field{str("free text", false)}},
	"HT": {[]Field{str("hidden text", false)}},
	"EM": {[]Field{str("Unofficial soil type", false)}},
	"VH": {},
	"KK": {[]Field{flt("Azimuth (degrees)", true), flt("Inclination (degrees)", true), integ("Diameter (mm)", false)}},
	"LB": {[]Field{str("Laboratory", true), str("Result", true), str("Unit", false)}},
	"RK": {[]Field{flt("Sieve size", true), flt("Passing percentage", true)}},
}

var (
	ruleWST    = Rule{[]Field{flt("Depth (m)", true), flt("Load (kN)", false), integ("Rotation of half turns (-)", false), str("Soil type", false)}}
	ruleFVT    = Rule{[]Field{flt("Depth (m)", true), flt("Shear strength (kN/m^2)", false), flt("Residual Shear strength (kN/m^2)", false), flt("Sensitivity (-)", false), flt("Residual strength (MPa)", false)}}
	ruleDPH    = Rule{[]Field{flt("Depth (m)", true), integ("Blows", false), str("Soil type", false)}}
	ruleDPT    = Rule{[]Field{flt("Depth (m)", true), integ("Blows", false), flt("Torque (Nm)", false), str("Soil type", false)}}
	ruleCPT    = Rule{[]Field{flt("Depth (m)", true), flt("Total resistance (MN/m^2)", false), flt("Sleeve friction (kN/m^2)", false), flt("Cone resistance (MN/m^2)", false), str("Soil type", false)}}
	ruleCPTU   = Rule{[]Field{flt("Depth (m)", true), flt("Total resistance (MN/m^2)", false), flt("Sleeve friction (kN/m^2)", false), flt("Cone resistance (MN/m^2)", false), flt("Pore pressure (kN/m^2)", false), str("Soil type", false)}}
	rulePipe   = Rule{[]Field{flt("Water level", true), str("Date", true), flt("Top level of pipe", false), flt("Bottom level of pipe", false), flt("Lenght of the sieve(m)", false), str("Inspector", false)}}
	rulePMT    = Rule{[]Field{flt("Depth (m)", false), flt("Pressometer modulus (MN/m^2)", false), flt("Burst pressure (MN/m^2)", false)}}
	ruleSample = Rule{[]Field{flt("Depth info 1 (m)", true), str("Sample ID", true), flt("Depth info 2 (m)", true), str("Soil type", false)}}
)

// surveyIdentifiers maps survey method abbreviations to data line
// layouts. Combined "A/B" aliases map to the same rule as each canonical
// sub-name. The head token of a data line is the first field.
var surveyIdentifiers = map[string]SurveyRule{
	"PA/WST": {Rule: ruleWST},
	"PA":     {Rule: ruleWST},
	"WST":    {Rule: ruleWST},
	"PI":     {Rule: Rule{[]Field{flt("Depth (m)", true), str("Soil type", false)}}},
	"LY":     {Rule: Rule{[]Field{flt("Depth (m)", true), flt("Load (kN)", false), integ("Blows", false), str("Soil type", false)}}},
	"SI/FVT": {Rule: ruleFVT},
	"SI":     {Rule: ruleFVT},
	"FVT":    {Rule: ruleFVT},
	"HE/DP":  {Rule: ruleDPH},
	"HE":     {Rule: ruleDPH},
	"HK/DP":  {Rule: ruleDPT},
	"HK":     {Rule: ruleDPT},
	"PT":     {Rule: Rule{[]Field{flt("Depth (m)", true), str("Soil type", false)}}},
	"TR":     {Rule: Rule{[]Field{flt("Depth (m)", true), str("Soil type", false)}}},
	"PR":     {Rule: Rule{[]Field{flt("Depth (m)", true), flt("Total resistance (MN/m^2)", false), flt("Sleeve friction (kN/m^2)", false), str("Soil type", false)}}},
	"CP/CPT": {Rule: ruleCPT},
	"CP":     {Rule: ruleCPT},
	"CPT":    {Rule: ruleCPT},
	"CU/CPTU": {Rule: ruleCPTU},
	"CU":      {Rule: ruleCPTU},
	"CPTU":    {Rule: ruleCPTU},
	"HP": {
		Phased: true,
		H:      Rule{[]Field{flt("Depth (m)", true), integ("Blows", false), flt("Torque (Nm)", false), str("Survey type", true), str("Soil type", false)}},
		P:      Rule{[]Field{flt("Depth (m)", true), flt("Pressure (MN/m^2)", false), flt("Torque (Nm)", false), str("Survey type", true), str("Soil type", false)}},
	},
	"PO": {Rule: Rule{[]Field{flt("Depth (m)", true), integ("Time (s)", false), str("Soil type", false)}}},
	"MW": {Rule: Rule{[]Field{
		flt("Depth (m)", true), flt("Speed (cm/min)", true), flt("Compressive force (kN)", true),
		flt("MW4", false), flt("MW5", false), flt("Torque (Nm)", false),
		flt("Rotational speed (rpm)", false), str("Blow", true), str("Soil type", false),
	}}},
	"VP":     {Rule: rulePipe},
	"VO":     {Rule: rulePipe},
	"VK":     {Rule: Rule{[]Field{flt("Water level", true), str("Date", true), str("Type", false)}}},
	"VPK":    {Rule: Rule{[]Field{flt("Water level", true), str("Date", true)}}},
	"HV":     {Rule: Rule{[]Field{flt("Depth (m)", false), flt("Pressure (kN/m^2)", false), str("Date", false), str("Measurer", false)}}},
	"HU":     {Rule: Rule{[]Field{flt("Height", false), str("Date", false), flt("Pipe top level", false), flt("Pipe bottom level", false), flt("Filter lenght", false), str("Measurer", false)}}},
	"PS/PMT": {Rule: rulePMT},
	"PS":     {Rule: rulePMT},
	"PMT":    {Rule: rulePMT},
	"PM":     {Rule: Rule{[]Field{flt("Height", false), str("Date", false), str("Measurer", false)}}},
	"KO":     {Rule: Rule{[]Field{flt("Depth (m)", false), str("Soil type", false), flt("Stoniness", false), integ("Boulderiness", false), flt("Maximum width", false), flt("Minimum width", false)}}},
	"KE":     {Rule: Rule{[]Field{flt("Initial depth (m)", true), flt("Final depth (m)", false)}}},
	"KR":     {Rule: Rule{[]Field{flt("Initial depth (m)", true), flt("Final depth (m)", true)}}},
	"NO":     {Rule: ruleSample},
	"NE":     {Rule: ruleSample},
}

// LookupFileHeader returns the rule for a file-header tag. Tags are
// matched case-insensitively. Absence is a normal "not found" signal.
func LookupFileHeader(tag string) (Rule, bool) {
	r, ok := fileHeaderIdentifiers[strings.ToUpper(tag)]
	return r, ok
}

// LookupHeader returns the rule for a point-header tag.
func LookupHeader(tag string) (Rule, bool) {
	r, ok := headerIdentifiers[strings.ToUpper(tag)]
	return r, ok
}

// LookupInline returns the rule for an inline-comment tag.
func LookupInline(tag string) (Rule, bool) {
	r, ok := inlineIdentifiers[strings.ToUpper(tag)]
	return r, ok
}

// LookupSurvey returns the data line layout for a survey method
// abbreviation, phased for "HP".
func LookupSurvey(abbreviation string) (SurveyRule, bool) {
	r, ok := surveyIdentifiers[strings.ToUpper(abbreviation)]
	return r, ok
}

// Abbreviations maps survey method abbreviations to their Finnish
// descriptions per infraformaatti 2.3 (www.citygeomodel.fi).
var Abbreviations = map[string]string{
	"CP":      "CPT -kairaus",
	"CP/CPT":  "CPT -kairaus",
	"CPT":     "CPT -kairaus",
	"CPTU":    "CPTU -kairaus",
	"CU":      "CPTU -kairaus",
	"CU/CPTU": "CPTU -kairaus",
	"FVT":     "Siipikairaus",
	"HE":      "Heijarikairaus",
	"HE/DP":   "Heijarikairaus",
	"HK":      "Heijarikairaus vääntömomentilla",
	"HK/DP":   "Heijarikairaus vääntömomentilla",
	"HP":      "Puristin-heijari -kairaus",
	"KE":      "Kallionäytekairaus laajennettu",
	"KO":      "Koekuoppa",
	"KR":      "Kallionäytekairaus videoitu",
	"LB":      "Laboratoriotutkimukset // Kallionäytetutkimus",
	"LY":      "Lyöntikairaus",
	"MW":      "MWD -kairaus",
	"NE":      "Näytteenotto häiriintymätön",
	"NO":      "Näytteenotto häiritty",
	"PA":      "Painokairaus",
	"PA/WST":  "Painokairaus",
	"PI":      "Pistokairaus",
	"PMT":     "Pressometrikoe",
	"PO":      "Porakonekairaus",
	"PR":      "Puristinkairaus",
	"PS":      "Pressometrikoe",
	"PS/PMT":  "Pressometrikoe",
	"PT":      "Putkikairaus",
	"RK":      "Rakeisuus",
	"SI":      "Siipikairaus",
	"SI/FVT":  "Siipikairaus",
	"TR":      "Tärykairaus",
	"VK":      "Vedenpinnan mittaus kaivosta",
	"VO":      "Orsiveden mittausputki",
	"VP":      "Pohjaveden mittausputki",
	"VPK":     "Kalliopohjavesiputki",
	"WST":     "Painokairaus",
}

// missingAbbreviation is the counting bucket for holes whose TT header
// carries no survey abbreviation.
const missingAbbreviation = "Missing survey abbreviation"

// LabAbbreviations maps laboratory result abbreviations (LB lines) to
// their Finnish descriptions and units.
var LabAbbreviations = map[string]string{
	"w":    "Vesipitoisuus %",
	"Hu":   "Humuspitoisuus %",
	"VG":   "Tilavuuspaino kN/m3",
	"Rs":   "Kiintotiheys t/m3",
	"n":    "Huokoisuus -",
	"e":    "Huokosluku -",
	"Sr":   "Kyllästysaste %",
	"D":    "Tiiviysaste %",
	"Wp":   "Kieritysraja %",
	"Wl":   "Juoksuraja %",
	"Ip":   "Plastisuusluku -",
	"k":    "Vedenläpäisevyys m/s",
	"Hc":   "Kapillaarinen nousukorkeus m",
	"d10":  "Tehokas raekoko d10 -",
	"U":    "Tasaisuusluku d60:d10 -",
	"F":    "Hienousluku %",
	"sk":   "Leikkauslujuus, kartiokoe kPa",
	"St":   "Sensitiivisyys -",
	"sp":   "Leikkauslujuus, puristuskoe kPa",
	"rak":  "Rakeisuus -",
	"R":    "Irtotiheys (t/m3 ) VG=R*g",
	"Rd":   "Kuivatiheys (t/m3 )",
	"Vd":   "Kuivatilavuus paino (kN/m3 ) Vd=Rd*g",
	"Dr":   "Suhteellinen tiiviys -",
	"Ph":   "Ph-arvo -",
	"So":   "Vallitseva jännitys (kN/m2 )",
	"Sc":   "Konsolidaatio jännitys (kN/m2 )",
	"Mv":   "Kokoonpuristuvuuskerroin (m2 /MN)",
	"M":    "Kokoonpuristuvuusmoduuli (MN/m2 )",
	"Cc":   "Kokoonpuristuvuusindeksi -",
	"P":    "Poissonin luku -",
	"m1":   "Moduuliluku normaalisti konsolidoitunut -",
	"m2":   "Moduuliluku, ylikonsolidoitunut -",
	"cv":   "Konsolidaatiokerroin vertikaalinen m2 /a",
	"ch":   "Konsolidaatiokerroin horisontaalinen m2 /a",
	"KIRK": "Kivinäyte rakeisuus -",
	"KIRs": "Kivinäyte kiintotiheys t/m3",
	"KIR":  "Kivinäyte irtotiheys t/m3",
	"KIHu": "Kivinäyte humuspitoisuus %",
	"KILP": "Kivinäyte lietepitoisuus %",
	"KIS":  "Kivinäyte muotoarvo -",
	"KILA": "Kivinäyte Los Angeles-luku -",
	"KIHA": "Kivinäyte parannettu haurausarvo -",
	"KIHI": "Kivinäyte hioutuvuusluku cm3",
	"KIMP": "Kivinäyte murtopintaluku -",
}
