package content

// SortPosts orders posts in place for listings. Two posts that both carry an
// order compare by ascending order; otherwise two posts that both carry a
// date compare newest first; otherwise they keep their walk order. Posts with
// neither field always sort after posts that have one.
//
// The pairwise rule is not transitive, so SortPosts runs a stable insertion
// sort: each post, taken in walk order, moves left only while it strictly
// precedes its left neighbour. The result depends on nothing but the input
// order.
func SortPosts(posts []Post) {
	for i := 1; i < len(posts); i++ {
		for j := i; j > 0 && precedes(posts[j], posts[j-1]); j-- {
			posts[j], posts[j-1] = posts[j-1], posts[j]
		}
	}
}

func precedes(a, b Post) bool {
	if ranked(a) != ranked(b) {
		return ranked(a)
	}
	if a.HasOrder() && b.HasOrder() {
		return *a.Order < *b.Order
	}
	if a.HasDate() && b.HasDate() {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return false
}

// ranked reports whether the post carries any ordering key.
func ranked(p Post) bool {
	return p.HasOrder() || p.HasDate()
}
