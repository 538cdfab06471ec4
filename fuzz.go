package pe

import "github.com/DaXcess/hytale-reversing/rtr"

func Fuzz(data []byte) int {
	f, err := NewBytes(data, &Options{SectionEntropy: true})
	if err != nil {
		return 0
	}
	if err := f.Parse(); err != nil {
		return 0
	}

	header, err := rtr.ScanAndParse(f)
	if err != nil {
		return 0
	}
	if _, err := header.Metadata(); err != nil {
		return 0
	}
	return 1
}
