// Mount (§4.7): for every non-boot disk and every non-empty partition on
// it, check sector start_lba+1 for the magic; mount if present, format
// then mount otherwise. The only default mount is sdb1.
package fs

import (
	"xunos/defs"
	"xunos/ide"
)

type diskSpec struct {
	disk *ide.Disk_t
	name string
	boot bool
}

func diskSpecs() []diskSpec {
	return []diskSpec{
		{ide.Primary.Disks[0], "sda", true}, // boot disk: kernel image lives here, not scanned
		{ide.Primary.Disks[1], "sdb", false},
		{ide.Secondary.Disks[0], "sdc", false},
		{ide.Secondary.Disks[1], "sdd", false},
	}
}

func readRawSector(raw ide.Partition_t, rel uint32, buf []byte) defs.Err_t {
	req := &ide.Request_t{LBA: raw.StartLBA + rel, Sectors: 1, Buf: buf}
	return raw.Disk.Channel.Do(raw.Disk, req)
}

// Init scans every non-boot disk, mounts (or formats-then-mounts) each
// non-empty partition found, and sets CurPart to sdb1 if present (§4.7).
func Init() defs.Err_t {
	for _, spec := range diskSpecs() {
		if spec.boot || spec.disk == nil {
			continue
		}
		parts, err := ide.ScanDisk(spec.disk, spec.name)
		if err != 0 {
			continue // no MBR / disk not attached
		}
		for _, raw := range parts {
			if raw.Sectors == 0 {
				continue
			}
			mounted, err := mountOne(raw)
			if err != 0 {
				return err
			}
			if mounted.Name == "sdb1" {
				CurPart = mounted
			}
		}
	}
	return 0
}

func mountOne(raw ide.Partition_t) (*Partition_t, defs.Err_t) {
	var sector [defs.BLOCK_SIZE]byte
	if err := readRawSector(raw, 1, sector[:]); err != 0 {
		return nil, err
	}
	if readLE32(sector[0:4]) == Magic {
		return mountExisting(raw, sector)
	}
	return Format(raw)
}

func mountExisting(raw ide.Partition_t, sbSector [defs.BLOCK_SIZE]byte) (*Partition_t, defs.Err_t) {
	p := newPartition(raw)
	sb := &Superblock_t{}
	copy(sb.Data[:], sbSector[:])
	p.SB = sb

	bb, err := loadBitmap(p, sb.BlockBitmapLBA(), sb.BlockBitmapLen(), int(sb.BlockBitmapLen())*bitsPerSector)
	if err != 0 {
		return nil, err
	}
	ib, err := loadBitmap(p, sb.InodeBitmapLBA(), sb.InodeBitmapLen(), defs.INODE_COUNT)
	if err != 0 {
		return nil, err
	}
	p.BlockBitmap = bb
	p.InodeBitmap = ib
	return p, 0
}
