package bingo

import "hash/fnv"

// Palette is the fixed ordered set of color tags assignable to submitters.
// Clients map these to their own styling.
var Palette = []string{
	"indigo", "emerald", "amber", "rose", "violet",
	"cyan", "fuchsia", "lime", "orange", "teal",
}

// ColorAssignment maps each submitter to a palette color. Submitters keeps
// first-appearance order so repeated generations walk the same sequence.
type ColorAssignment struct {
	// Submitters is the distinct submitter list in first-appearance order.
	Submitters []string

	// Colors maps submitter to palette color.
	Colors map[string]string

	// Collisions lists submitters that received an already-used color
	// because the palette ran out. Empty in the common case; a group would
	// need more than len(Palette) submitters to see one.
	Collisions []string
}

// preferredSlot hashes a username to its stable palette index. The same
// username always lands on the same slot, so a user keeps their color across
// groups and reloads.
func preferredSlot(username string) int {
	h := fnv.New32a()
	h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(Palette)))
}

// AssignColors deterministically assigns each submitter a palette color.
// Each submitter's preferred slot is hash-derived; when two submitters
// prefer the same slot, the later one (in first-appearance order) probes
// linearly forward, wrapping, to the next unused slot. Once every slot is
// taken the preferred slot is reused as-is and the collision is recorded
// rather than hidden.
func AssignColors(submitters []string) ColorAssignment {
	assignment := ColorAssignment{
		Submitters: submitters,
		Colors:     make(map[string]string, len(submitters)),
	}

	used := make([]bool, len(Palette))
	for _, submitter := range submitters {
		slot := preferredSlot(submitter)

		if assigned := len(assignment.Colors); assigned >= len(Palette) {
			// Palette exhausted: fall back to the preferred slot without
			// probing, and surface the collision to the caller.
			assignment.Colors[submitter] = Palette[slot]
			assignment.Collisions = append(assignment.Collisions, submitter)
			continue
		}

		for used[slot] {
			slot = (slot + 1) % len(Palette)
		}
		used[slot] = true
		assignment.Colors[submitter] = Palette[slot]
	}

	return assignment
}
