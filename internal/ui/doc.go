// Package ui provides the terminal user interface for marquee.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds the view state and four data
// sources from package browse: the popular listing, search results, the
// favorited-detail batch, and the single-movie detail loader. Update never
// blocks: page fetches run as tea.Cmd functions and come back as pageMsg or
// detailsMsg values, which are applied to their collection on the update
// loop. Stale responses are dropped by the collection itself.
//
// # Package Structure
//
//   - app.go: Model, Options, key dispatch, and the Run entry point
//   - commands.go: fetch commands and their result messages
//   - selection.go: cursor movement, infinite scroll, and selection restore
//   - list.go: list rendering and the titled box frame
//   - detail.go: movie detail rendering
//   - header.go: header and command bar
//   - search.go: search box focus and submission
//   - theme.go, style_helpers.go: colors and background-safe rendering
//
// # View Types
//
//   - Popular: infinite-scroll list of popular movies, restored from the
//     session cache when one exists
//   - Search: paginated results for the submitted query with the term
//     highlighted in titles
//   - Favorites: details of every favorited movie, sortable by title or rating
//   - Detail: the full record of one movie
//
// # Infinite Scroll
//
// When the cursor comes within LoadMoreThreshold rows of the end of the
// Popular or Search list, the next page is requested. The collection
// ignores the request while a fetch is in flight or when the last page has
// been loaded.
//
// # Selection Restore
//
// Leaving the detail view re-selects the movie that was opened. When the
// list does not hold it yet, the restore is retried each time a page arrives,
// up to RestoreMaxAttempts times.
//
// # Keyboard Shortcuts
//
//   - 1/2/3, tab: switch views
//   - j/k, g/G, ctrl+d/u: navigate
//   - enter: open details; esc: back
//   - f or space: toggle favorite
//   - /: search
//   - s: cycle favorites sort
//   - r: retry a failed page, or refresh popular
//   - T: cycle theme
//   - h or ?: help
//   - q: quit
package ui
