// Path resolution (§4.7): canonicalization, depth, and the top-down
// directory walk search_file performs, tracking the searched-path prefix
// and parent directory the spec's testable properties (§8.9) describe.
package fs

import (
	"strings"

	"xunos/defs"
)

// splitPath breaks an absolute path into its non-empty components,
// resolving "." and ".." segments along the way so the result is already
// canonical.
func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	var out []string
	for _, seg := range raw {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return out
}

// Canonicalize reduces path to its normal form: "/a/b/../c" -> "/a/c",
// "/" -> "/" (§8.9).
func Canonicalize(path string) string {
	parts := splitPath(path)
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// Depth counts path components: depth("/a/b/c") == 3, depth("/") == 0
// (§8.9).
func Depth(path string) int {
	return len(splitPath(path))
}

// SearchRecord_t records how far path resolution got (§4.7): the
// canonical prefix actually resolved, the last directory inode visited
// (left open for the caller — Open/Mkdir/etc. either use it to add a new
// entry or must inodeClose it themselves), and the type of whatever was
// ultimately found.
type SearchRecord_t struct {
	SearchedPath string
	ParentDir    *Inode_t
	FileType     File_type_t
}

// SearchFile resolves path against CurPart, starting at the root inode and
// repeatedly extracting the top-level remaining name, searching the
// current directory, and descending (§4.7). It returns the target's inode
// number and 0 on success; ENOENT with a record describing the last
// successfully-resolved directory if any path component is missing;
// ENOTDIR if a non-final component is not itself a directory.
//
// record.ParentDir is always left open on return (whether success or
// ENOENT) — callers must inodeClose it once done using it, matching
// the teacher's own "caller owns what it was handed" convention for every
// fallible lookup.
func SearchFile(path string) (int32, *SearchRecord_t, defs.Err_t) {
	parts := splitPath(path)
	rootNo := CurPart.SB.RootInode()
	cur, err := inodeOpen(CurPart, rootNo)
	if err != 0 {
		return -1, nil, err
	}

	if len(parts) == 0 {
		return int32(rootNo), &SearchRecord_t{SearchedPath: "/", ParentDir: cur, FileType: FT_DIRECTORY}, 0
	}

	for i, name := range parts {
		entNo, ftype, found := searchDirEntry(cur, name)
		last := i == len(parts)-1

		if !found {
			return -1, &SearchRecord_t{
				SearchedPath: "/" + strings.Join(parts[:i], "/"),
				ParentDir:    cur,
			}, defs.ENOENT
		}

		if last {
			return int32(entNo), &SearchRecord_t{
				SearchedPath: Canonicalize(path),
				ParentDir:    cur,
				FileType:     ftype,
			}, 0
		}

		if ftype != FT_DIRECTORY {
			inodeClose(cur)
			return -1, nil, defs.ENOTDIR
		}

		next, err := inodeOpen(CurPart, entNo)
		inodeClose(cur)
		if err != 0 {
			return -1, nil, err
		}
		cur = next
	}
	panic("unreachable")
}
