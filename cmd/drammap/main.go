// The drammap command derives DRAM address mapping matrices from
// declarative interleaving schemes and emits them as loadable
// configurations.
package main

func main() {
	Execute()
}
