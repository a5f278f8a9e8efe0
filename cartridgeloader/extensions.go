package cartridgeloader

// FileExtensions is the list of file extensions recognised as NDS/DSi ROM
// images. Anything else is still accepted by NewLoaderFromFilename but
// will not shorten its display Name.
var FileExtensions = [...]string{
	".NDS", ".DSI", ".SRL", ".ARGV",
}
