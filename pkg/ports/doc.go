// Package ports defines the interfaces between the machine core and its
// collaborators: pluggable transition execution and event resolution
// strategies, session state stores, and the embeddable machine view consumed
// by the flattener.
package ports
