package redisx

import "fmt"

const ns = "zoneboard:v1"

// KeyBranchBoard addresses the cached zones-with-bookings snapshot for one
// branch. The empty branch (all zones) is cached under "all".
func KeyBranchBoard(branch string) string {
	if branch == "" {
		branch = "all"
	}
	return fmt.Sprintf("%s:board:%s", ns, branch)
}

func ChannelBoardChanged() string {
	return ns + ":board:changed"
}
