package randomname

var adjectives = []string{
	"agile", "ancient", "bold", "brave", "bright", "calm", "clever", "cosmic",
	"crisp", "curious", "daring", "eager", "elegant", "epic", "fancy", "fierce",
	"frosty", "gentle", "golden", "happy", "humble", "jolly", "kind", "lively",
	"lucky", "mighty", "modern", "noble", "proud", "quick", "quirky", "royal",
	"savvy", "serene", "sharp", "shiny", "silent", "sleek", "smooth", "sunny",
	"swift", "tidy", "vivid", "warm", "whimsical", "wise", "witty", "zesty",
}

var nouns = []string{
	"alpaca", "badger", "beaver", "bison", "camel", "condor", "crane", "dolphin",
	"eagle", "falcon", "ferret", "finch", "fox", "gecko", "heron", "ibis",
	"jaguar", "kestrel", "koala", "lemur", "llama", "lynx", "marlin", "meerkat",
	"narwhal", "newt", "ocelot", "orca", "osprey", "otter", "owl", "panda",
	"parrot", "pelican", "penguin", "puma", "quail", "quokka", "raven", "robin",
	"salmon", "seal", "sparrow", "tapir", "tiger", "walrus", "wombat", "yak",
}
