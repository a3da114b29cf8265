package ide

import (
	"encoding/binary"

	"xunos/defs"
)

// Partition_t is one entry of a disk's partition table, the unit a
// filesystem is mounted on (§3: "A partition is the unit a filesystem is
// mounted on").
type Partition_t struct {
	Disk     *Disk_t
	Name     string
	StartLBA uint32
	Sectors  uint32
}

const (
	mbrPartTableOffset = 0x1BE
	mbrPartEntrySize   = 16
	mbrPartCount       = 4
	mbrSigOffset       = 0x1FE

	partTypeEmpty    = 0x00
	partTypeExtended = 0x05
	partTypeExtLBA   = 0x0F
)

// readSector reads one 512-byte sector into buf, going through the
// normal PIO read path.
func readSector(d *Disk_t, lba uint32, buf []byte) defs.Err_t {
	req := &Request_t{LBA: lba, Sectors: 1, Buf: buf}
	return d.Channel.Do(d, req)
}

// ScanDisk reads LBA 0, examines the 4-entry MBR partition table, and
// recurses into an extended-partition chain (type 0x05/0x0F) using the
// first extended partition's LBA as the base for every subsequent
// sub-partition offset in the chain (§4.6).
func ScanDisk(d *Disk_t, name string) ([]Partition_t, defs.Err_t) {
	var sector [defs.BLOCK_SIZE]byte
	if err := readSector(d, 0, sector[:]); err != 0 {
		return nil, err
	}
	if sector[mbrSigOffset] != 0x55 || sector[mbrSigOffset+1] != 0xAA {
		return nil, defs.EIO
	}

	var parts []Partition_t
	for i := 0; i < mbrPartCount; i++ {
		off := mbrPartTableOffset + i*mbrPartEntrySize
		ptype := sector[off+4]
		startLBA := binary.LittleEndian.Uint32(sector[off+8 : off+12])
		count := binary.LittleEndian.Uint32(sector[off+12 : off+16])

		switch ptype {
		case partTypeEmpty:
			continue
		case partTypeExtended, partTypeExtLBA:
			chain, err := scanExtendedChain(d, name, startLBA, startLBA)
			if err != 0 {
				return nil, err
			}
			parts = append(parts, chain...)
		default:
			parts = append(parts, Partition_t{
				Disk:     d,
				Name:     primaryPartName(name, i),
				StartLBA: startLBA,
				Sectors:  count,
			})
		}
	}
	return parts, 0
}

// scanExtendedChain walks the linked list of extended boot records (EBRs),
// each holding one logical partition entry plus a pointer to the next EBR.
// Each next-EBR link is relative to base, the first extended partition's
// own starting LBA (§4.6); the logical partition an EBR describes starts
// relative to that EBR's own LBA.
func scanExtendedChain(d *Disk_t, name string, base, ebrLBA uint32) ([]Partition_t, defs.Err_t) {
	var parts []Partition_t
	cur := ebrLBA
	idx := 0
	for cur != 0 {
		var sector [defs.BLOCK_SIZE]byte
		if err := readSector(d, cur, sector[:]); err != 0 {
			return nil, err
		}
		logicalStart := binary.LittleEndian.Uint32(sector[mbrPartTableOffset+8 : mbrPartTableOffset+12])
		logicalCount := binary.LittleEndian.Uint32(sector[mbrPartTableOffset+12 : mbrPartTableOffset+16])
		if logicalCount != 0 {
			parts = append(parts, Partition_t{
				Disk:     d,
				Name:     logicalPartName(name, idx),
				StartLBA: cur + logicalStart,
				Sectors:  logicalCount,
			})
		}

		nextOff := mbrPartTableOffset + mbrPartEntrySize
		nextType := sector[nextOff+4]
		nextStart := binary.LittleEndian.Uint32(sector[nextOff+8 : nextOff+12])
		if (nextType == partTypeExtended || nextType == partTypeExtLBA) && nextStart != 0 {
			cur = base + nextStart
		} else {
			cur = 0
		}
		idx++
	}
	return parts, 0
}

func primaryPartName(disk string, idx int) string {
	return disk + string(rune('1'+idx))
}

func logicalPartName(disk string, idx int) string {
	return disk + string(rune('5'+idx))
}
