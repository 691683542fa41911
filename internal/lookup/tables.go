package lookup

// unknownRank sorts action and slot types missing from the order tables last
const unknownRank = 100

var actionOrder = []string{
	"Focus",
	"Recover",
	"Reinforce",
	"Target Lock",
	"Barrel Roll",
	"Boost",
	"Evade",
	"Cloak",
	"Coordinate",
	"Jam",
	"SLAM",
	"Rotate Arc",
}

var slotOrder = []string{
	"Talent",
	"Force",
	"System",
	"Cannon",
	"Turret",
	"Torpedo",
	"Missile",
	"Crew",
	"Gunner",
	"Astromech Droid",
	"Device",
	"Illicit",
	"Modification",
	"Title",
	"Configuration",
}

// browseOnlySlots can be browsed by name but have no place in the slot bar order
var browseOnlySlots = []string{
	"Tech",
	"Hardpoint",
	"Team",
	"Cargo",
	"Sensor",
	"Force Power",
	"Tactical Relay",
	"Command",
	"Payload",
}

// aliases maps common shorthand onto canonical index keys
var aliases = map[string]string{
	"fcs":                  "firecontrolsystem",
	"apl":                  "antipursuitlasers",
	"atc":                  "advancedtargetingcomputer",
	"ptl":                  "pushthelimit",
	"hlc":                  "heavylasercannon",
	"tlt":                  "twinlaserturret",
	"vi":                   "veteraninstincts",
	"at":                   "autothrusters",
	"as":                   "advancedsensors",
	"acd":                  "advancedcloakingdevice",
	"eu":                   "engineupgrade",
	"tap":                  "tieadvancedprototype",
	"ac":                   "accuracycorrector",
	"abt":                  "autoblasterturret",
	"sd":                   "stealthdevice",
	"ei":                   "experimentalinterface",
	"k4":                   "k4securitydroid",
	"stressbot":            "r3a2",
	"countesskturn":        "countessryad",
	"countesskturns":       "countessryad",
	"countessbluekturn":    "countessryad",
	"bmst":                 "blackmarketslicertools",
	"snuggling":            "smugglingcompartment",
	"snugglingcompartment": "smugglingcompartment",
}

// arcIcons maps firing arc names onto attack icon suffixes. Arcs not listed
// (the primary front arc) get no icon.
var arcIcons = map[string]string{
	"Turret":         "turret",
	"Auxiliary Rear": "frontback",
	"Auxiliary 180":  "180",
	"Bullseye":       "bullseye",
}

// factionDisplay shortens faction names in restriction lines
var factionDisplay = map[string]string{
	"Galactic Empire":   "Imperial",
	"Rebel Alliance":    "Rebel",
	"Scum and Villainy": "Scum",
}

type maneuver struct {
	code byte
	icon string
}

// maneuverKey lists dial codes in the column order of a printed dial
var maneuverKey = []maneuver{
	{'T', "turnleft"},
	{'B', "bankleft"},
	{'F', "straight"},
	{'N', "bankright"},
	{'Y', "turnright"},
	{'K', "kturn"},
	{'L', "sloopleft"},
	{'P', "sloopright"},
	{'E', "trollleft"},
	{'R', "trollright"},
	{'A', "reversebankleft"},
	{'S', "reversestraight"},
	{'D', "reversebankright"},
}

var stopManeuver = maneuver{'O', "stop"}

// difficultyKey maps dial difficulty codes onto icon colour prefixes
var difficultyKey = map[byte]string{
	'R': "red",
	'W': "",
	'G': "green",
	'B': "blue",
}

func rank(order []string, value string) int {
	for i, v := range order {
		if v == value {
			return i
		}
	}
	return unknownRank
}

func actionRank(action string) int {
	return rank(actionOrder, action)
}

func slotRank(slot string) int {
	return rank(slotOrder, slot)
}
