package fs

import (
	"encoding/binary"

	"xunos/defs"
)

// dirEntSize is the on-disk directory-entry record size the superblock
// stores (§3): filename[16] + inode_no(4) + file_type(1), padded to a
// round 24 bytes.
const dirEntSize = 24

// Dirent_t is one directory entry (§3).
type Dirent_t struct {
	Name  [defs.DIR_ENTRY_NAME_LEN]byte
	INo   uint32
	Type  File_type_t
}

func (d *Dirent_t) NameString() string {
	n := 0
	for n < len(d.Name) && d.Name[n] != 0 {
		n++
	}
	return string(d.Name[:n])
}

func (d *Dirent_t) setName(s string) {
	var nb [defs.DIR_ENTRY_NAME_LEN]byte
	copy(nb[:], s)
	d.Name = nb
}

func (d *Dirent_t) encode(buf []byte) {
	copy(buf[0:defs.DIR_ENTRY_NAME_LEN], d.Name[:])
	binary.LittleEndian.PutUint32(buf[defs.DIR_ENTRY_NAME_LEN:defs.DIR_ENTRY_NAME_LEN+4], d.INo)
	buf[defs.DIR_ENTRY_NAME_LEN+4] = byte(d.Type)
}

func decodeDirent(buf []byte) Dirent_t {
	var d Dirent_t
	copy(d.Name[:], buf[0:defs.DIR_ENTRY_NAME_LEN])
	d.INo = binary.LittleEndian.Uint32(buf[defs.DIR_ENTRY_NAME_LEN : defs.DIR_ENTRY_NAME_LEN+4])
	d.Type = File_type_t(buf[defs.DIR_ENTRY_NAME_LEN+4])
	return d
}

func newDirent(name string, ino uint32, t File_type_t) Dirent_t {
	var d Dirent_t
	d.setName(name)
	d.INo = ino
	d.Type = t
	return d
}
