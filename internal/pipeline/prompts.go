package pipeline

import (
	"fmt"
	"strings"
)

// promptSuffix is appended verbatim to every generated icon description. It
// pins the rendering constraints the downstream tools depend on: a flat
// removable background and shapes bold enough to survive a 32x32 shrink.
const promptSuffix = `MANDATORY REQUIREMENTS:
- SIZE: This will display as a TINY 32x32 pixel icon. Use BOLD, SIMPLE shapes only. NO fine details, NO small text, NO intricate patterns. Think chunky and iconic.
- Background: COMPLETELY FLAT solid color (bright teal, coral, orange, or purple). NO gradients, NO lighting effects, NO shadows on background, NO variation whatsoever. The background must be a single uniform color designed to be easily removed.
- Object: Rendered in 3D isometric style with clear depth and shading ON THE OBJECT ONLY.
- The background color must be VERY DIFFERENT from any color in the object (high contrast).
- Fill the frame - object as large as possible.`

func processSummaryPrompt(name, homepage, readme string) string {
	parts := []string{fmt.Sprintf("Process name: %s", name)}
	if homepage != "" {
		parts = append(parts, fmt.Sprintf("Homepage HTML (excerpt):\n%s", homepage))
	}
	if readme != "" {
		parts = append(parts, fmt.Sprintf("README content:\n%s", readme))
	}
	context := strings.Join(parts, "\n\n")

	return fmt.Sprintf(`Based on the following information about an application, write a brief 1-2 sentence summary describing what this app does. Be specific and practical.

%s

Write ONLY the summary, nothing else. Keep it under 100 words.`, context)
}

func websiteSummaryPrompt(name, url string) string {
	return fmt.Sprintf(`Visit this website and write a brief 1-2 sentence summary describing what it is about: %s

The website is named %q.

Write ONLY the summary, nothing else. Keep it under 100 words.`, url, name)
}

func iconDescriptionPrompt(name, summary string) string {
	return fmt.Sprintf(`I need to create an app icon for %q.

App summary: %s

Describe a 3D ISOMETRIC illustration of a SUBSTANTIAL PHYSICAL OBJECT that represents this app.

Requirements:
- Must be a REAL, SOLID, 3D OBJECT - something you could pick up and hold
- Isometric 3D perspective with clear depth, shading, and volume
- ONE main object only (a machine, device, container, tool, furniture, etc.)
- The object must look SUBSTANTIAL and SOLID - not flat, not abstract, not a stream of shapes

Think of chunky physical objects: a 3D printer, a toolbox, a safe, a vending machine, a jukebox, a telescope, a robot, a treasure chest, a globe on a stand, a vintage radio, a filing cabinet, etc.

Examples of GOOD descriptions:
- "A chunky 3D isometric vintage radio with knobs and speaker grille"
- "A solid 3D isometric wooden treasure chest with metal bands and lock"
- "A substantial 3D isometric robot with boxy body and articulated arms"
- "A hefty 3D isometric telescope on a wooden tripod"

BAD examples (DO NOT do these):
- "A letter D" (text is not an object)
- "Flowing beads or particles" (not a solid object)
- "Abstract shapes" (not a physical object)
- "Flat 2D icon" (must be clearly 3D with depth)

Respond with ONLY the object description (1 sentence describing the 3D object), nothing else. Do NOT mention the background.`, name, summary)
}

// buildIconPrompt combines the generated object description with the fixed
// rendering requirements.
func buildIconPrompt(description string) string {
	return strings.TrimSpace(description) + "\n\n" + promptSuffix
}
