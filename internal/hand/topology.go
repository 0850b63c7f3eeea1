package hand

/* hand joints (MediaPipe order)
0: Wrist
1-4: Thumb (cmc, mcp, ip, tip)
5-8: Index (mcp, pip, dip, tip)
9-12: Middle (mcp, pip, dip, tip)
13-16: Ring (mcp, pip, dip, tip)
17-20: Pinky (mcp, pip, dip, tip)
*/

// JointNames lists the 21 joints in topology order.
var JointNames = [JointCount]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_mcp", "index_pip", "index_dip", "index_tip",
	"middle_mcp", "middle_pip", "middle_dip", "middle_tip",
	"ring_mcp", "ring_pip", "ring_dip", "ring_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

// Bones is the fixed skeletal graph: 20 (parent, child) joint-index
// pairs forming five finger chains rooted at the wrist. Bone output
// everywhere follows this ordering.
var Bones = [20][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4}, // thumb
	{0, 5}, {5, 6}, {6, 7}, {7, 8}, // index
	{0, 9}, {9, 10}, {10, 11}, {11, 12}, // middle
	{0, 13}, {13, 14}, {14, 15}, {15, 16}, // ring
	{0, 17}, {17, 18}, {18, 19}, {19, 20}, // pinky
}

// Parent maps each non-root joint to its parent joint.
func Parent(joint int) (int, bool) {
	for _, pair := range Bones {
		if pair[1] == joint {
			return pair[0], true
		}
	}
	return 0, false
}
